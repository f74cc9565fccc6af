package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// SysHealth is a point-in-time snapshot of process and storage health,
// rendered by the bot's metrics command.
type SysHealth struct {
	Goroutines   int
	AllocMB      uint64
	TotalAllocMB uint64
	SysMB        uint64
	NumGC        uint32
	DataDiskSize string
}

// GetSysHealth samples the runtime and measures the data directory on disk.
func GetSysHealth(dataPath string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	const mb = 1024 * 1024
	return SysHealth{
		Goroutines:   runtime.NumGoroutine(),
		AllocMB:      m.Alloc / mb,
		TotalAllocMB: m.TotalAlloc / mb,
		SysMB:        m.Sys / mb,
		NumGC:        m.NumGC,
		DataDiskSize: humanDirSize(dataPath),
	}
}

// humanDirSize walks the directory and renders its total size as "1.2 MB".
func humanDirSize(path string) string {
	var size int64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})

	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
