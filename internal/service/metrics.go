package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess       = "success"
	outcomeInvalidType   = "invalid_type"
	outcomeTooLarge      = "too_large"
	outcomeNotFound      = "not_found"
	outcomeForbidden     = "forbidden"
	outcomeStorageFailed = "storage_failed"
	outcomeRecordFailed  = "record_failed"
	outcomeFailed        = "failed"
)

var (
	imageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizlist_image_uploads_total",
		Help: "Image association attempts by outcome.",
	}, []string{"outcome"})

	imageCleanups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizlist_image_cleanups_total",
		Help: "Blob deletions after a failed record update, by outcome.",
	}, []string{"outcome"})
)
