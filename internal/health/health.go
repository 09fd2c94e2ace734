package health

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// HealthChecker reports store and host health. The db pool is nil when the
// in-memory store is selected; the database section then reports "memory".
type HealthChecker struct {
	db *pgxpool.Pool
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

type SystemHealth struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
	MemoryTotalMB uint64  `json:"memory_total_mb"`
	DiskPercent   float64 `json:"disk_percent"`
}

type DetailedHealth struct {
	HealthStatus
	System SystemHealth `json:"system"`
}

func NewHealthChecker(db *pgxpool.Pool) *HealthChecker {
	return &HealthChecker{db: db}
}

func (h *HealthChecker) CheckBasic() HealthStatus {
	dbHealth := h.checkDatabase()

	status := "healthy"
	if dbHealth.Status == "unhealthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
	}
}

func (h *HealthChecker) CheckDetailed() DetailedHealth {
	return DetailedHealth{
		HealthStatus: h.CheckBasic(),
		System:       collectSystem(),
	}
}

func (h *HealthChecker) checkDatabase() DatabaseHealth {
	if h.db == nil {
		return DatabaseHealth{Status: "memory"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return DatabaseHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return DatabaseHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}

func collectSystem() SystemHealth {
	var sys SystemHealth

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		sys.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		sys.MemoryPercent = vm.UsedPercent
		sys.MemoryUsedMB = vm.Used / 1024 / 1024
		sys.MemoryTotalMB = vm.Total / 1024 / 1024
	}
	if du, err := disk.Usage("/"); err == nil {
		sys.DiskPercent = du.UsedPercent
	}

	return sys
}
