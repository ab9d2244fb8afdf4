package reviews

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ugiot.co.il/app/internal/http/validation"
	"ugiot.co.il/app/internal/shared/apperr"
)

type memStore struct{ created []Review }

func (m *memStore) Create(_ context.Context, r *Review) error {
	m.created = append(m.created, *r)
	return nil
}
func (m *memStore) ListApproved(context.Context, int) ([]Review, error) { return nil, nil }
func (m *memStore) Approve(context.Context, string) error              { return nil }

func TestSubmit(t *testing.T) {
	tests := []struct {
		name      string
		in        Input
		wantField string
	}{
		{"valid", Input{Name: "Dana", Rating: 5, Text: "Best cookies"}, ""},
		{"rating too high", Input{Name: "Dana", Rating: 6, Text: "x"}, "rating"},
		{"rating missing", Input{Name: "Dana", Text: "x"}, "rating"},
		{"bad name", Input{Name: "D4na", Rating: 4, Text: "x"}, "name"},
		{"empty text", Input{Name: "Dana", Rating: 4, Text: "   "}, "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{}
			r, err := NewService(store).Submit(context.Background(), tt.in, validation.En)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.False(t, r.Approved)
				assert.Len(t, store.created, 1)
				return
			}
			ae, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, apperr.Invalid, ae.Kind)
			assert.Contains(t, ae.Fields, tt.wantField)
			assert.Empty(t, store.created)
		})
	}
}
