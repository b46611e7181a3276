package domain

import "testing"

func TestCalculateVideoCost(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		model   string
		size    string
		seconds int
		want    float64
		wantNil bool
	}{
		{name: "sora2_landscape", model: "sora-2", size: "1280x720", seconds: 8, want: 0.8},
		{name: "sora2_portrait", model: "sora-2", size: "720x1280", seconds: 4, want: 0.4},
		{name: "pro_720p", model: "sora-2-pro", size: "1280x720", seconds: 12, want: 3.6},
		{name: "pro_hd", model: "sora-2-pro", size: "1792x1024", seconds: 8, want: 4},
		{name: "unknown_model_default_rate", model: "x", size: "1280x720", seconds: 8, want: 0.8},
		{name: "unknown_model_odd_size", model: "x", size: "640x480", seconds: 3, want: 0.3},
		{name: "zero_seconds", model: "sora-2", size: "1280x720", seconds: 0, wantNil: true},
		{name: "unknown_model_zero_seconds", model: "x", size: "1280x720", seconds: 0, wantNil: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := CalculateVideoCost(tc.model, tc.size, tc.seconds)
			if tc.wantNil {
				if got != nil {
					t.Fatalf("CalculateVideoCost() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("CalculateVideoCost() = nil")
			}
			if got.EstimatedCostUS != tc.want {
				t.Fatalf("estimated cost = %v, want %v", got.EstimatedCostUS, tc.want)
			}
			if got.Seconds != tc.seconds || got.Model != tc.model || got.Size != tc.size {
				t.Fatalf("details mismatch: %+v", got)
			}
		})
	}
}
