package host

import (
	"context"
	"runtime"
	"testing"
)

func TestLocalCollector(t *testing.T) {
	f, err := LocalCollector{}.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if f.CPUs != runtime.NumCPU() {
		t.Errorf("CPUs = %d, want %d", f.CPUs, runtime.NumCPU())
	}
}

func TestCollectorsHonorCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	collectors := map[string]Collector{
		"local":  LocalCollector{},
		"static": StaticCollector{Facts: Facts{CPUs: 4}},
	}
	for name, c := range collectors {
		t.Run(name, func(t *testing.T) {
			if _, err := c.Collect(ctx); err == nil {
				t.Error("Collect() expected error on cancelled context")
			}
		})
	}
}

func TestStaticCollector_ReturnsCopy(t *testing.T) {
	c := StaticCollector{Facts: Facts{Hostname: "web-1", CPUs: 4}}

	f, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	f.CPUs = 99

	if c.Facts.CPUs != 4 {
		t.Errorf("StaticCollector facts mutated through result: CPUs = %d", c.Facts.CPUs)
	}
}
