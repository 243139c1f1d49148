package company

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeSeed(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "seed.yaml"))
	require.NoError(t, err)
	defer f.Close()

	items, err := DecodeSeed(f)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 15, items[0].Tax)
	require.Equal(t, 12, items[1].Tax)
	require.Equal(t, "mperez", items[0].Owner.Username)
	require.Equal(t, "001", items[1].EstablishmentCode)
}

func TestDecodeSeedRejectsUnknownFields(t *testing.T) {
	_, err := DecodeSeed(strings.NewReader("companies:\n  - ruc: '1'\n    colour: red\n"))
	require.Error(t, err)
}

func TestDecodeSeedEmpty(t *testing.T) {
	items, err := DecodeSeed(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestLoadSeedFile(t *testing.T) {
	items, err := LoadSeedFile(filepath.Join("testdata", "seed.yaml"))
	require.NoError(t, err)
	require.Len(t, items, 2)

	items, err = LoadSeedFile("")
	require.NoError(t, err)
	require.Nil(t, items)

	_, err = LoadSeedFile(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
}

func TestMemoryStoreNumbersSeed(t *testing.T) {
	store := NewMemoryStore(Company{ID: 4, RUC: "a"}, Company{RUC: "b"})
	items, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, int64(4), items[0].ID)
	require.Equal(t, int64(5), items[1].ID)
}

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	saved, err := store.Save(ctx, Company{RUC: "1790012345001", CommercialName: "Andina"})
	require.NoError(t, err)
	require.Equal(t, int64(1), saved.ID)

	_, err = store.Save(ctx, Company{RUC: "1790012345001"})
	require.ErrorIs(t, err, ErrDuplicateRUC)

	saved.CommercialName = "Andina Norte"
	_, err = store.Save(ctx, saved)
	require.NoError(t, err)

	got, err := store.Get(ctx, saved.ID)
	require.NoError(t, err)
	require.Equal(t, "Andina Norte", got.CommercialName)

	_, err = store.Save(ctx, Company{ID: 99, RUC: "x"})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Delete(ctx, saved.ID))
	require.ErrorIs(t, store.Delete(ctx, saved.ID), ErrNotFound)
	_, err = store.Get(ctx, saved.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemoryStore().List(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStoreConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Save(ctx, Company{RUC: string(rune('a' + i))})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	rows, err := Rows(ctx, store)
	require.NoError(t, err)
	require.Len(t, rows, 20)
	for i, row := range rows {
		require.Equal(t, int64(i+1), row.ID)
	}
}
