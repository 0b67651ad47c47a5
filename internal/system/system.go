package system

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Info summarizes the host resources relevant to encoding.
type Info struct {
	LogicalCores int
	TotalMB      uint64
	AvailableMB  uint64
}

// Probe collects CPU and memory facts for the doctor report and thread sizing.
func Probe() (*Info, error) {
	cores, err := cpu.Counts(true)
	if err != nil {
		cores = runtime.NumCPU()
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("read memory stats: %w", err)
	}

	return &Info{
		LogicalCores: cores,
		TotalMB:      vm.Total / (1024 * 1024),
		AvailableMB:  vm.Available / (1024 * 1024),
	}, nil
}

// EncoderThreads picks an ffmpeg thread count for this host. Zero configured
// means auto: all cores, capped when memory is tight since each x264 thread
// holds frame buffers.
func EncoderThreads(configured int) int {
	if configured > 0 {
		return configured
	}

	info, err := Probe()
	if err != nil {
		return runtime.NumCPU()
	}

	threads := info.LogicalCores
	if info.AvailableMB < 2048 && threads > 2 {
		threads = 2
	}
	return threads
}

// ToolStatus reports presence of one external binary.
type ToolStatus struct {
	Name     string
	Path     string
	Found    bool
	Required bool
	Hint     string
}

// CheckTools verifies the external binaries the pipeline shells out to.
func CheckTools(manimBinary string) []ToolStatus {
	checks := []struct {
		name     string
		required bool
		hint     string
	}{
		{"ffmpeg", true, "install ffmpeg and ensure it is on PATH"},
		{"ffprobe", true, "ffprobe ships with ffmpeg"},
		{"edge-tts", false, "narration fallback: pip install edge-tts"},
		{manimBinary, false, "math animations: pip install manim"},
	}

	out := make([]ToolStatus, 0, len(checks))
	for _, c := range checks {
		path, err := exec.LookPath(c.name)
		out = append(out, ToolStatus{
			Name:     c.name,
			Path:     path,
			Found:    err == nil,
			Required: c.required,
			Hint:     c.hint,
		})
	}
	return out
}
