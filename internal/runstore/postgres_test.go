package runstore

import (
	"testing"
	"time"
)

// fakeRow stands in for *sql.Row/*sql.Rows, letting scanRun be tested
// without a database connection — the same trick the teacher's
// postgres_test.go uses to exercise computeDedupKey/pqStringArray in
// isolation from internal/store/postgres.go's actual SQL.
type fakeRow struct {
	runID                                       string
	startedAt                                   time.Time
	streams, iterations, improvements, accepted int
	bestObj, finalObj                           int64
	unassigned                                  int
	initTemp, cooling                           float64
	initRem, initIns, finRem, finIns             []byte
}

func (f *fakeRow) Scan(dest ...any) error {
	vals := []any{
		&f.runID, &f.startedAt, &f.streams, &f.iterations, &f.improvements, &f.accepted,
		&f.bestObj, &f.finalObj, &f.unassigned, &f.initTemp, &f.cooling,
		&f.initRem, &f.initIns, &f.finRem, &f.finIns,
	}
	for i, d := range dest {
		switch v := d.(type) {
		case *string:
			*v = *(vals[i].(*string))
		case *time.Time:
			*v = *(vals[i].(*time.Time))
		case *int:
			*v = *(vals[i].(*int))
		case *int64:
			*v = *(vals[i].(*int64))
		case *float64:
			*v = *(vals[i].(*float64))
		case *[]byte:
			*v = *(vals[i].(*[]byte))
		}
	}
	return nil
}

func TestScanRunDecodesWeightJSON(t *testing.T) {
	row := &fakeRow{
		runID: "run-1", startedAt: time.Unix(1000, 0),
		streams: 4, iterations: 50, improvements: 10, accepted: 3,
		bestObj: 1200, finalObj: 1250, unassigned: 1,
		initTemp: 10, cooling: 0.995,
		initRem: []byte(`[0.25,0.25,0.25,0.25]`),
		initIns: []byte(`[0.5,0.5]`),
		finRem:  []byte(`[0.4,0.6]`),
		finIns:  []byte(`[0.7,0.3]`),
	}
	r, err := scanRun(row)
	if err != nil {
		t.Fatalf("scanRun: %v", err)
	}
	if r.RunID != "run-1" || r.Streams != 4 || r.BestObjective != 1200 {
		t.Fatalf("unexpected scalar fields: %+v", r)
	}
	if len(r.FinalRemovalWeights) != 2 || r.FinalRemovalWeights[1] != 0.6 {
		t.Fatalf("expected FinalRemovalWeights [0.4 0.6], got %v", r.FinalRemovalWeights)
	}
	if len(r.InitInsertWeights) != 2 || r.InitInsertWeights[0] != 0.5 {
		t.Fatalf("expected InitInsertWeights [0.5 0.5], got %v", r.InitInsertWeights)
	}
}
