package table_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leaderboard/pkg/leaderboard"
	"github.com/goliatone/go-leaderboard/pkg/table"
)

func mustDecode(t *testing.T, in string) leaderboard.RecordList {
	t.Helper()
	list, err := leaderboard.Decode([]byte(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return list
}

func TestPopulate_RowsMatchRecords(t *testing.T) {
	body := table.NewBody()
	if err := table.Populate(body, mustDecode(t, `[{"rank":1,"score":100},{"rank":2,"score":90}]`)); err != nil {
		t.Fatalf("populate: %v", err)
	}
	want := []table.Row{{"1", "100"}, {"2", "90"}}
	if diff := cmp.Diff(want, body.Rows()); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestPopulate_ReplacesPriorRows(t *testing.T) {
	body := table.NewBody()
	body.Append(table.Row{"stale", "row"}, table.Row{"another", "row"})

	if err := table.Populate(body, mustDecode(t, `[{"rank":1,"score":0}]`)); err != nil {
		t.Fatalf("populate: %v", err)
	}
	if diff := cmp.Diff([]table.Row{{"1", ""}}, body.Rows()); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	if err := table.Populate(body, mustDecode(t, `[]`)); err != nil {
		t.Fatalf("populate: %v", err)
	}
	if body.Len() != 0 {
		t.Fatalf("expected empty body, got %d rows", body.Len())
	}
}

func TestPopulate_MissingBody(t *testing.T) {
	err := table.Populate(nil, mustDecode(t, `[]`))
	if !errors.Is(err, leaderboard.ErrMissingTarget) {
		t.Fatalf("expected ErrMissingTarget, got %v", err)
	}
}

func TestBody_ClearAndAppend(t *testing.T) {
	body := table.NewBody()
	body.Append(table.Row{"1", "2"})
	body.Append()
	if body.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", body.Len())
	}
	body.Clear()
	if body.Len() != 0 {
		t.Fatalf("expected cleared body, got %d rows", body.Len())
	}
}

func TestBody_RowsAreCopies(t *testing.T) {
	body := table.NewBody()
	row := table.Row{"1", "2"}
	body.Append(row)
	row[0] = "mutated"

	rows := body.Rows()
	rows[0][1] = "mutated"

	if diff := cmp.Diff([]table.Row{{"1", "2"}}, body.Rows()); diff != "" {
		t.Fatalf("body leaked internal state (-want +got):\n%s", diff)
	}
}

func TestTable_SnapshotIsDetached(t *testing.T) {
	tbl := table.FromRecords(mustDecode(t, `[{"rank":1,"score":5}]`))
	snap := tbl.Snapshot()

	tbl.Body.Clear()

	if snap.Body.Len() != 1 {
		t.Fatalf("snapshot should keep its rows, got %d", snap.Body.Len())
	}
	if snap.ID != table.DefaultID {
		t.Fatalf("unexpected id %q", snap.ID)
	}
	if diff := cmp.Diff([]string{"rank", "score"}, snap.Columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestBody_ConcurrentReplaceNeverMixesRenders(t *testing.T) {
	body := table.NewBody()
	small := []table.Row{{"1", "a"}}
	large := []table.Row{{"1", "b"}, {"2", "b"}, {"3", "b"}}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			body.Replace(small)
		}()
		go func() {
			defer wg.Done()
			body.Replace(large)
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		rows := body.Rows()
		if n := len(rows); n != 0 && n != 1 && n != 3 {
			t.Fatalf("observed partial render with %d rows", n)
		}
	}
}
