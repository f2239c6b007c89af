package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rtzll/chanscribe/internal"
)

func TestExportError(t *testing.T) {
	t.Run("fatal", func(t *testing.T) {
		var errOut bytes.Buffer
		ui := internal.NewWriterUI(&bytes.Buffer{}, &errOut, false)
		err := fmt.Errorf("resolving: %w", internal.ErrChannelNotFound)

		got := exportError(ui, &internal.ExportStats{OutputPath: "out.csv"}, err)
		assert.ErrorIs(t, got, internal.ErrChannelNotFound)
		assert.Contains(t, got.Error(), "nothing exported")
		assert.Empty(t, errOut.String())
	})

	t.Run("interrupted with rows", func(t *testing.T) {
		var errOut bytes.Buffer
		ui := internal.NewWriterUI(&bytes.Buffer{}, &errOut, false)
		stats := &internal.ExportStats{Listed: 5, Written: 2, OutputPath: "out.csv"}

		got := exportError(ui, stats, context.Canceled)
		assert.Equal(t, context.Canceled, got)
		assert.Equal(t, "Warning: stopped after 2 of 5 videos; rows so far are in out.csv\n", errOut.String())
	})

	t.Run("failed before any row", func(t *testing.T) {
		var errOut bytes.Buffer
		ui := internal.NewWriterUI(&bytes.Buffer{}, &errOut, false)
		disk := errors.New("disk full")

		assert.Equal(t, disk, exportError(ui, &internal.ExportStats{}, disk))
		assert.Empty(t, errOut.String())
	})
}
