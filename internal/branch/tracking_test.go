package branch

import "testing"

func TestParseTrackingRef(t *testing.T) {
	t.Parallel()

	remotes := []string{"origin", "me", "team/eu"}

	tests := []struct {
		name    string
		ref     string
		want    TrackingRef
		wantOK  bool
		wantErr bool
	}{
		{name: "no upstream", ref: ""},
		{name: "local upstream", ref: "refs/heads/main"},
		{
			name:   "foreign",
			ref:    "refs/remotes/origin/feature/login",
			want:   TrackingRef{Remote: "origin", Branch: "feature/login"},
			wantOK: true,
		},
		{
			name:   "personal",
			ref:    "refs/remotes/me/wip",
			want:   TrackingRef{Remote: "me", Branch: "wip", Personal: true},
			wantOK: true,
		},
		{
			name:   "remote with slash",
			ref:    "refs/remotes/team/eu/fix",
			want:   TrackingRef{Remote: "team/eu", Branch: "fix"},
			wantOK: true,
		},
		{name: "tag ref", ref: "refs/tags/v1", wantErr: true},
		{name: "unknown remote", ref: "refs/remotes/upstream/x", wantErr: true},
		{name: "missing branch", ref: "refs/remotes/origin/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok, err := ParseTrackingRef(tt.ref, remotes, "me")
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTrackingRef(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseTrackingRef(%q) = %+v, %v, want %+v, %v", tt.ref, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTrackingRef_Ref(t *testing.T) {
	t.Parallel()

	tr := TrackingRef{Remote: "origin", Branch: "feature"}
	if tr.Ref() != "refs/remotes/origin/feature" {
		t.Errorf("Ref() = %q", tr.Ref())
	}
	if tr.String() != "origin/feature" {
		t.Errorf("String() = %q", tr.String())
	}
}
