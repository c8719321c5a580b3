package internal

import (
	"archivist/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolkit_OpenAndClose(t *testing.T) {
	svc := &testutil.MockPersistenceService{}
	tk := NewToolkit(testutil.TestConfig(t.TempDir()), &testutil.MockLogger{}, svc)

	require.NoError(t, tk.Open())
	require.NoError(t, tk.Close())
	assert.Equal(t, []string{"Open", "Close"}, svc.Calls)
}

func TestToolkit_CloseReportsError(t *testing.T) {
	svc := &testutil.MockPersistenceService{Err: testutil.ErrMock}
	tk := NewToolkit(testutil.TestConfig(t.TempDir()), &testutil.MockLogger{}, svc)

	assert.ErrorIs(t, tk.Close(), testutil.ErrMock)
}
