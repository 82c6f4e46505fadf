package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionOrdering(t *testing.T) {
	assert.True(t, Write.AtLeast(Read))
	assert.True(t, Write.AtLeast(Write))
	assert.True(t, Read.AtLeast(Read))
	assert.False(t, Read.AtLeast(Write))
	assert.False(t, Forbidden.AtLeast(Read))
	assert.True(t, Forbidden.AtLeast(Forbidden))
}

func TestPermissionMax(t *testing.T) {
	assert.Equal(t, Write, Read.Max(Write))
	assert.Equal(t, Write, Write.Max(Read))
	assert.Equal(t, Read, Forbidden.Max(Read))
	assert.Equal(t, Forbidden, Forbidden.Max(Forbidden))
}

func TestParsePermission(t *testing.T) {
	tests := []struct {
		in      string
		want    Permission
		wantErr bool
	}{
		{in: "FORBIDDEN", want: Forbidden},
		{in: "READ", want: Read},
		{in: "WRITE", want: Write},
		{in: "write", wantErr: true},
		{in: "", wantErr: true},
		{in: "ADMIN", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePermission(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPermissionStringRoundTrip(t *testing.T) {
	for _, p := range []Permission{Forbidden, Read, Write} {
		got, err := ParsePermission(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}
