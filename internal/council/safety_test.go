// internal/council/safety_test.go
package council

import "testing"

func TestAuditProposal(t *testing.T) {
	tests := []struct {
		name     string
		proposal Proposal
		want     []string
	}{
		{
			name:     "clean proposal",
			proposal: Proposal{Title: "Add caching", Description: "Introduce a read-through cache in front of the database."},
			want:     nil,
		},
		{
			name:     "destructive deletion in steps",
			proposal: Proposal{Title: "Cleanup", Steps: []string{"run rm -rf /var/data/old"}},
			want:     []string{"irreversible deletion"},
		},
		{
			name:     "drop table",
			proposal: Proposal{Description: "Then DROP TABLE users and rebuild."},
			want:     []string{"destructive database operation"},
		},
		{
			name: "duplicate labels collapse",
			proposal: Proposal{
				Description: "First rm -rf the workdir, then delete all backups.",
			},
			want: []string{"irreversible deletion"},
		},
		{
			name:     "bypassing review",
			proposal: Proposal{Description: "We can skip the review step to ship faster."},
			want:     []string{"bypassing review"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AuditProposal(&tt.proposal)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("finding %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}
