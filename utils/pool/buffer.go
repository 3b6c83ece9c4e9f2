package pool

import "sync"

// BufferSize 流式拷贝缓冲区大小（256KB）
const BufferSize = 256 * 1024

// SharedBufferPool 存储 *[]byte，避免 SA6002
var SharedBufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, BufferSize)
		return &buf
	},
}

// GetBuffer 取出一个缓冲区，用完需调用 PutBuffer
func GetBuffer() *[]byte {
	return SharedBufferPool.Get().(*[]byte)
}

// PutBuffer 归还缓冲区
func PutBuffer(buf *[]byte) {
	if buf == nil || cap(*buf) < BufferSize {
		return
	}
	*buf = (*buf)[:BufferSize]
	SharedBufferPool.Put(buf)
}
