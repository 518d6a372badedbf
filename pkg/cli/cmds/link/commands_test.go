package link

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tuppersat/r2d1.go/pkg/cli/cmds/frame"
	"github.com/tuppersat/r2d1.go/pkg/radio"
)

func TestListen(t *testing.T) {
	var stream bytes.Buffer
	tx := radio.NewRadio(&stream, 0x15)
	_, err := tx.SendText("one")
	require.NoError(t, err)
	_, err = tx.SendText("two")
	require.NoError(t, err)

	var got []string
	count, err := Listen(context.Background(), radio.NewReceiver(&stream), time.Second, func(d *frame.Decoded) {
		got = append(got, d.Data)
	})
	require.Equal(t, io.EOF, err)
	require.Equal(t, 2, count)
	require.Equal(t, []string{"one", "two"}, got)
}
