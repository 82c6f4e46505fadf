package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateArtifactRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateArtifactRequest
		wantErr string
	}{
		{
			name: "valid document",
			req:  CreateArtifactRequest{WorkspaceID: "ws", Number: "DOC-001", Kind: KindDocument},
		},
		{
			name: "kind defaults to document",
			req:  CreateArtifactRequest{WorkspaceID: "ws", Number: "DOC-002"},
		},
		{
			name:    "missing workspace",
			req:     CreateArtifactRequest{Number: "DOC-001"},
			wantErr: "workspace id is required",
		},
		{
			name:    "missing number",
			req:     CreateArtifactRequest{WorkspaceID: "ws"},
			wantErr: "artifact number is required",
		},
		{
			name:    "bad kind",
			req:     CreateArtifactRequest{WorkspaceID: "ws", Number: "X", Kind: "blueprint"},
			wantErr: "kind must be 'document' or 'part'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestArtifactCheckedOutBy(t *testing.T) {
	a := &Artifact{Number: "DOC-001"}
	assert.False(t, a.CheckedOutBy("bob"))

	a.Lock = &LockInfo{Holder: "bob"}
	assert.True(t, a.CheckedOutBy("bob"))
	assert.False(t, a.CheckedOutBy("carol"))
}
