package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubnetAllocations counts subnets handed out to new projects.
	SubnetAllocations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "subnets_allocations_total",
		Help: "Total number of /24 subnets allocated to new projects",
	})

	// LastAllocatedOctet is the third octet of the most recent allocation.
	LastAllocatedOctet = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "subnets_last_allocated_octet",
		Help: "Third octet of the most recently allocated subnet",
	})

	// Projects is the number of projects after the last write.
	Projects = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "subnets_projects",
		Help: "Number of tracked projects",
	})

	// Backups counts backup uploads by result ("ok", "error", "dropped").
	Backups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "subnets_backups_total",
		Help: "Total number of document backups by result",
	}, []string{"result"})
)
