package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/sheets/v4"

	"github.com/JonMunkholm/rostersync/internal/sheets/sheetstest"
)

func newFakeAPI(t *testing.T) (*sheetstest.Server, *sheets.Service) {
	t.Helper()
	fake := sheetstest.NewServer(t)
	svc, err := NewService(context.Background(), ClientConfig{
		Endpoint:    fake.Endpoint(),
		AccessToken: "test-token",
	})
	require.NoError(t, err)
	return fake, svc
}
