package membership

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func assertCount(t *testing.T, query *gorm.DB, want int64) {
	t.Helper()
	var count int64
	require.NoError(t, query.Count(&count).Error)
	require.Equal(t, want, count)
}
