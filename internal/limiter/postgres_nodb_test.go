package limiter

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

/************ fake pgx ************/

type fakeRow struct{ scan func(dest ...any) error }

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

type fakePool struct {
	qrErr         error
	qrBlockedTill *time.Time
	qrFailsRet    int

	lastExecSQL string
	execErr     error
}

func (f *fakePool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastExecSQL = sql
	return pgconn.CommandTag{}, f.execErr
}

func (f *fakePool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	switch {
	case strings.Contains(sql, "SELECT blocked_until"):
		return fakeRow{scan: func(dest ...any) error {
			if f.qrErr != nil {
				return f.qrErr
			}
			if f.qrBlockedTill != nil {
				*(dest[0].(*time.Time)) = *f.qrBlockedTill
			} else {
				*(dest[0].(*time.Time)) = time.Time{} // 'epoch'
			}
			return nil
		}}
	case strings.Contains(sql, "INSERT INTO login_throttle"):
		return fakeRow{scan: func(dest ...any) error {
			if f.qrErr != nil {
				return f.qrErr
			}
			*(dest[0].(*int)) = f.qrFailsRet
			return nil
		}}
	default:
		return fakeRow{scan: func(...any) error { return errors.New("unexpected query: " + sql) }}
	}
}

func TestHashIP_StableAndDistinct(t *testing.T) {
	t.Parallel()

	a := HashIP("10.0.0.1")
	b := HashIP("10.0.0.1")
	c := HashIP("10.0.0.2")
	if !bytes.Equal(a, b) {
		t.Fatalf("hash not stable for same input")
	}
	if bytes.Equal(a, c) {
		t.Fatalf("hash should differ across addresses")
	}
	if len(a) != 32 {
		t.Fatalf("len=%d, want 32", len(a))
	}
}

func TestPG_Allow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// unknown pair is allowed
	p := NewPGWithQuerier(&fakePool{qrErr: pgx.ErrNoRows}, time.Minute, 3, time.Minute)
	ok, retry, err := p.Allow(ctx, "bugs", HashIP("ip"))
	if err != nil || !ok || retry != 0 {
		t.Fatalf("Allow(no rows) = %v %v %v", ok, retry, err)
	}

	// active block denies with retry-after
	future := time.Now().Add(30 * time.Second)
	p = NewPGWithQuerier(&fakePool{qrBlockedTill: &future}, time.Minute, 3, time.Minute)
	ok, retry, err = p.Allow(ctx, "bugs", HashIP("ip"))
	if err != nil || ok || retry <= 0 {
		t.Fatalf("Allow(blocked) = %v %v %v", ok, retry, err)
	}

	// expired block allows
	past := time.Now().Add(-time.Minute)
	p = NewPGWithQuerier(&fakePool{qrBlockedTill: &past}, time.Minute, 3, time.Minute)
	ok, _, err = p.Allow(ctx, "bugs", HashIP("ip"))
	if err != nil || !ok {
		t.Fatalf("Allow(expired block) = %v %v", ok, err)
	}

	// storage error propagates (caller fails closed)
	p = NewPGWithQuerier(&fakePool{qrErr: errors.New("down")}, time.Minute, 3, time.Minute)
	if _, _, err = p.Allow(ctx, "bugs", HashIP("ip")); err == nil {
		t.Fatalf("want storage error to propagate")
	}
}

func TestPG_Failure_BlocksAtBudget(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	pool := &fakePool{qrFailsRet: 2}
	p := NewPGWithQuerier(pool, time.Minute, 3, 5*time.Minute)
	blocked, _, err := p.Failure(ctx, "bugs", HashIP("ip"))
	if err != nil || blocked {
		t.Fatalf("Failure(under budget) = %v %v", blocked, err)
	}

	pool.qrFailsRet = 3
	blocked, retry, err := p.Failure(ctx, "bugs", HashIP("ip"))
	if err != nil || !blocked || retry != 5*time.Minute {
		t.Fatalf("Failure(at budget) = %v %v %v", blocked, retry, err)
	}
}

func TestPG_Success_ResetsCounters(t *testing.T) {
	t.Parallel()

	pool := &fakePool{}
	p := NewPGWithQuerier(pool, time.Minute, 3, time.Minute)
	if err := p.Success(context.Background(), "bugs", HashIP("ip")); err != nil {
		t.Fatalf("Success: %v", err)
	}
	if !strings.Contains(pool.lastExecSQL, "fail_count=0") {
		t.Fatalf("reset SQL not issued: %q", pool.lastExecSQL)
	}
}
