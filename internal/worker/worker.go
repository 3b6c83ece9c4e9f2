package worker

import (
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Task 异步任务
type Task func()

// Stats 运行统计
type Stats struct {
	Submitted int64
	Executed  int64
	Failed    int64
	Dropped   int64
}

// Pool 固定大小的协程池，Stop 会等待已入队任务执行完毕
type Pool struct {
	workers int
	queue   chan Task
	wg      sync.WaitGroup

	mu      sync.Mutex
	started bool
	stopped bool

	submitted atomic.Int64
	executed  atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// NewPool 创建并启动协程池
func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	p := &Pool{
		workers: workers,
		queue:   make(chan Task, queueSize),
	}
	p.start()
	return p
}

func (p *Pool) start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return
	}
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	p.started = true
}

// Submit 非阻塞提交，队列已满或已停止时返回 false
func (p *Pool) Submit(task Task) bool {
	if p.trySubmit(task) {
		return true
	}
	p.dropped.Add(1)
	log.Println("[Worker] Queue is full, task dropped")
	return false
}

// SubmitWait 阻塞提交，最多等待 timeout，每次被拒只计一次丢弃
func (p *Pool) SubmitWait(task Task, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if p.trySubmit(task) {
			return true
		}
		if p.isStopped() || time.Now().After(deadline) {
			p.dropped.Add(1)
			log.Printf("[Worker] Queue still full after %v, task dropped", timeout)
			return false
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// trySubmit 尝试入队，不计入统计
func (p *Pool) trySubmit(task Task) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return false
	}

	select {
	case p.queue <- task:
		p.submitted.Add(1)
		return true
	default:
		return false
	}
}

func (p *Pool) isStopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

// Stop 停止接收新任务并等待队列清空，可重复调用
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}

// GetStats 返回统计快照
func (p *Pool) GetStats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Executed:  p.executed.Load(),
		Failed:    p.failed.Load(),
		Dropped:   p.dropped.Load(),
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.queue {
		p.execute(task)
	}
}

// execute 执行任务并捕获 panic
func (p *Pool) execute(task Task) {
	defer func() {
		p.executed.Add(1)
		if r := recover(); r != nil {
			p.failed.Add(1)
			log.Printf("[Worker] Panic recovered in task: %v", r)
		}
	}()
	task()
}
