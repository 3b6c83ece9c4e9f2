package image

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	imagesUploadedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fishbed",
			Name:      "images_uploaded_total",
			Help:      "Total number of images recorded, by upload type",
		},
		[]string{"upload_type"},
	)
	uploadedBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fishbed",
			Name:      "uploaded_bytes_total",
			Help:      "Total bytes written to storage by uploads",
		},
	)
	imagesDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fishbed",
			Name:      "images_deleted_total",
			Help:      "Total number of images deleted",
		},
	)
)
