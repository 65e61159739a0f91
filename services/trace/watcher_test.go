// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package trace

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphWatcherReloadsOnWrite(t *testing.T) {
	path := writeGraphFile(t, `"a" -> "b";`)

	svc := NewService()
	require.NoError(t, svc.LoadGraph(path))
	require.Equal(t, 2, svc.Stats().Nodes)

	w, err := NewGraphWatcher(svc, path, &GraphWatcherOptions{
		DebounceWindow: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	assert.True(t, w.IsWatching())

	require.NoError(t, os.WriteFile(path, []byte(`
"a" -> "b";
"b" -> "c";
`), 0o644))

	// Wait for debounce plus reload.
	require.Eventually(t, func() bool {
		return svc.Stats().Nodes == 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGraphWatcherDebouncesBurstIntoOneReload(t *testing.T) {
	path := writeGraphFile(t, `"a" -> "b";`)

	svc := NewService()
	require.NoError(t, svc.LoadGraph(path))

	w, err := NewGraphWatcher(svc, path, &GraphWatcherOptions{
		DebounceWindow: 150 * time.Millisecond,
	})
	require.NoError(t, err)
	defer w.Stop()
	require.NoError(t, w.Start(context.Background()))

	before := testutil.ToFloat64(graphReloadsTotal.WithLabelValues(outcomeOK))

	// A burst of writes inside the debounce window must collapse into
	// exactly one reload, even when earlier timer ticks raced the writes.
	for i := 0; i < 5; i++ {
		content := fmt.Sprintf("\"a\" -> \"b\";\n\"b\" -> \"n%d\";\n", i)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		time.Sleep(20 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(graphReloadsTotal.WithLabelValues(outcomeOK)) >= before+1
	}, 2*time.Second, 10*time.Millisecond)

	// Wait past another full window: a stale tick would show up here
	// as a second reload.
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(graphReloadsTotal.WithLabelValues(outcomeOK)))
	assert.Equal(t, 3, svc.Stats().Nodes)
}

func TestGraphWatcherStopIsIdempotent(t *testing.T) {
	path := writeGraphFile(t, `"a" -> "b";`)
	svc := NewService()

	w, err := NewGraphWatcher(svc, path, nil)
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
	assert.False(t, w.IsWatching())
}

func TestGraphWatcherIgnoresSiblingFiles(t *testing.T) {
	path := writeGraphFile(t, `"a" -> "b";`)
	svc := NewService()
	require.NoError(t, svc.LoadGraph(path))

	w, err := NewGraphWatcher(svc, path, &GraphWatcherOptions{
		DebounceWindow: 20 * time.Millisecond,
	})
	require.NoError(t, err)
	defer w.Stop()
	require.NoError(t, w.Start(context.Background()))

	// A write to an unrelated file in the same directory must not
	// trigger a reload.
	sibling := path + ".bak"
	require.NoError(t, os.WriteFile(sibling, []byte(`"x" -> "y";`), 0o644))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 2, svc.Stats().Nodes)
}
