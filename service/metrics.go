package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	statusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dossier_status_transitions_total",
		Help: "Accepted dossier status transitions.",
	}, []string{"from", "to"})

	dossiersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dossiers_created_total",
		Help: "Dossiers created.",
	})

	documentsUploadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dossier_documents_uploaded_total",
		Help: "Documents stored in the object store.",
	})

	documentBytesUploadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dossier_document_bytes_uploaded_total",
		Help: "Bytes stored in the object store.",
	})

	directoryHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "user_directory_cache_hits_total",
		Help: "Display name lookups served from the cache.",
	})

	directoryMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "user_directory_cache_misses_total",
		Help: "Display name lookups that went to the user repository.",
	})
)
