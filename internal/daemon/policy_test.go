package daemon

import "testing"

func TestReconcile(t *testing.T) {
	tests := []struct {
		name string
		obs  Observation
		pol  Policy
		want Action
	}{
		{
			name: "window closed externally",
			obs:  Observation{Exists: false},
			want: ActionTerminate,
		},
		{
			name: "window closed, auto-unminimize irrelevant",
			obs:  Observation{Exists: false, Focused: true},
			pol:  Policy{AutoUnminimizeOnFocus: true},
			want: ActionTerminate,
		},
		{
			name: "restored externally",
			obs:  Observation{Exists: true, OnHiddenWorkspace: false},
			want: ActionTerminate,
		},
		{
			name: "focused with auto-unminimize",
			obs:  Observation{Exists: true, OnHiddenWorkspace: true, Focused: true},
			pol:  Policy{AutoUnminimizeOnFocus: true},
			want: ActionRestore,
		},
		{
			name: "focused without auto-unminimize",
			obs:  Observation{Exists: true, OnHiddenWorkspace: true, Focused: true},
			pol:  Policy{AutoUnminimizeOnFocus: false},
			want: ActionNone,
		},
		{
			name: "hidden and unfocused",
			obs:  Observation{Exists: true, OnHiddenWorkspace: true, Focused: false},
			pol:  Policy{AutoUnminimizeOnFocus: true},
			want: ActionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reconcile(tt.obs, tt.pol); got != tt.want {
				t.Errorf("Reconcile(%+v, %+v) = %v, want %v", tt.obs, tt.pol, got, tt.want)
			}

			// Same inputs, same answer: the policy holds no state.
			if again := Reconcile(tt.obs, tt.pol); again != tt.want {
				t.Errorf("Reconcile is not pure: second call = %v, want %v", again, tt.want)
			}
		})
	}
}
