package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sig-0/largestbanks/server/config"
	"github.com/sig-0/largestbanks/storage/memory"
)

func TestServer_New(t *testing.T) {
	t.Parallel()

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.ListenAddress = "nowhere"

		_, err := New(memory.NewStorage(), WithConfig(cfg))

		assert.ErrorIs(t, err, config.ErrInvalidListenAddress)
	})
}
