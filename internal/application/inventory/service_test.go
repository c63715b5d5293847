package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-wms/internal/application/dto"
	"github.com/jhoicas/estoque-wms/internal/application/inventory"
	"github.com/jhoicas/estoque-wms/internal/domain"
	"github.com/jhoicas/estoque-wms/internal/domain/entity"
	"github.com/jhoicas/estoque-wms/internal/infrastructure/metrics"
	"github.com/jhoicas/estoque-wms/internal/infrastructure/store"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

type fixture struct {
	svc     *inventory.Service
	repos   *store.Repositories
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repos := store.NewSnapshotRepositories(store.NewMemoryStore(), "", "")
	m := metrics.New("test")
	return fixture{
		svc:     inventory.NewService(repos.Stock, repos.History, inventory.WithMetrics(m)),
		repos:   repos,
		metrics: m,
	}
}

func entry(code, qty, addr, lote string) dto.EntryRequest {
	return dto.EntryRequest{Code: code, Description: "Produto " + code, Quantity: d(qty), Address: addr, Lote: lote}
}

// errRepo falla siempre al guardar.
type errRepo struct{}

func (errRepo) Load(context.Context) ([]entity.StockRecord, error) { return nil, nil }
func (errRepo) Save(context.Context, []entity.StockRecord) error   { return errors.New("disco cheio") }

type errHistoryRepo struct{}

func (errHistoryRepo) Load(context.Context) ([]entity.HistoryEntry, error) { return nil, nil }
func (errHistoryRepo) Save(context.Context, []entity.HistoryEntry) error   { return errors.New("disco cheio") }

// ─── Mutaciones ──────────────────────────────────────────────────────────────

func TestRegisterEntry_AgregaHistoricoYPersiste(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.svc.RegisterEntry(ctx, entry(" x1 ", "10", "a1", "l1"))
	require.NoError(t, err)
	assert.Equal(t, entity.MovementEntrada, e.Type)
	assert.Equal(t, "X1", e.Code)
	assert.NotEmpty(t, e.ID)

	stock, err := f.repos.Stock.Load(ctx)
	require.NoError(t, err)
	require.Len(t, stock, 1)
	assert.True(t, stock[0].Quantity.Equal(d("10")))

	hist, err := f.repos.History.Load(ctx)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, e.ID, hist[0].ID)
}

func TestRegisterEntry_ValidacionNoModifica(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []dto.EntryRequest{
		{Code: "", Description: "x", Quantity: d("1"), Address: "A1"},
		{Code: "X", Description: "   ", Quantity: d("1"), Address: "A1"},
		{Code: "X", Description: "x", Quantity: d("0"), Address: "A1"},
		{Code: "X", Description: "x", Quantity: d("-1"), Address: "A1"},
		{Code: "X", Description: "x", Quantity: d("1"), Address: ""},
	}
	for _, in := range cases {
		_, err := f.svc.RegisterEntry(ctx, in)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "%+v", in)
	}
	assert.Empty(t, f.svc.Stock(ctx))
	assert.Empty(t, f.svc.History(ctx))
	assert.Equal(t, float64(len(cases)), testutil.ToFloat64(f.metrics.Operations.WithLabelValues(inventory.OpEntry, "invalid_input")))
}

func TestRegisterEntry_CantidadMuyChicaEsPositiva(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RegisterEntry(ctx, entry("X1", "1e-400", "A1", "L1"))
	require.NoError(t, err)

	stock := f.svc.Stock(ctx)
	require.Len(t, stock, 1)
	assert.True(t, stock[0].Quantity.IsPositive())

	_, err = f.svc.RegisterEntry(ctx, entry("X1", "0", "A1", "L1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorContains(t, err, "quantity deve ser maior que zero")
}

func TestRegisterExit_FallasNoAgreganHistorico(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.RegisterEntry(ctx, entry("X", "2", "A1", "L1"))
	require.NoError(t, err)

	_, err = f.svc.RegisterExit(ctx, dto.ExitRequest{Code: "X", Address: "A1", Lote: "L1", Quantity: d("3")})
	assert.True(t, errors.Is(err, domain.ErrInsufficientQuantity))
	_, err = f.svc.RegisterExit(ctx, dto.ExitRequest{Code: "X", Address: "A9", Lote: "L1", Quantity: d("1")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.Len(t, f.svc.History(ctx), 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Operations.WithLabelValues(inventory.OpExit, "not_found")))
}

func TestFlujoCompleto_UnaEntradaPorMutacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RegisterEntry(ctx, entry("X2", "8", "A1", "L1"))
	require.NoError(t, err)
	_, err = f.svc.Transfer(ctx, dto.TransferRequest{Code: "X2", FromAddress: "A1", ToAddress: "A2", Lote: "L1", Quantity: d("3")})
	require.NoError(t, err)
	_, err = f.svc.UpdateLote(ctx, dto.UpdateLoteRequest{Code: "X2", Address: "A2", OldLote: "L1", NewLote: "L5"})
	require.NoError(t, err)
	_, err = f.svc.RegisterExit(ctx, dto.ExitRequest{Code: "X2", Address: "A1", Lote: "L1", Quantity: d("5")})
	require.NoError(t, err)

	hist := f.svc.History(ctx)
	require.Len(t, hist, 4)
	assert.Equal(t, []entity.MovementType{
		entity.MovementSaida, entity.MovementEdicaoLote, entity.MovementTransferencia, entity.MovementEntrada,
	}, []entity.MovementType{hist[0].Type, hist[1].Type, hist[2].Type, hist[3].Type})

	stock := f.svc.Stock(ctx)
	require.Len(t, stock, 1)
	assert.Equal(t, "A2", stock[0].Address)
	assert.Equal(t, "L5", stock[0].Lote)
	assert.True(t, stock[0].Quantity.Equal(d("3")))
}

func TestTransfer_MismoEnderecoRechazado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.RegisterEntry(ctx, entry("X", "2", "A1", ""))
	require.NoError(t, err)

	_, err = f.svc.Transfer(ctx, dto.TransferRequest{Code: "X", FromAddress: "A1", ToAddress: "a1", Quantity: d("1")})
	assert.True(t, errors.Is(err, domain.ErrSameAddress))
	assert.Len(t, f.svc.History(ctx), 1)
}

func TestImport_PrefijoConfirmadoYError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Import(ctx, []dto.ImportRecord{
		{Code: "A", Description: "a", Quantity: d("1"), Address: "E1", Lote: "L1"},
		{Code: "A", Description: "a", Quantity: d("2"), Address: "E1", Lote: "L1"},
		{Code: "B", Description: "b", Quantity: d("0"), Address: "E1"},
		{Code: "C", Description: "c", Quantity: d("1"), Address: "E1"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Contains(t, err.Error(), "registro 3")
	assert.Equal(t, 2, res.Imported)
	assert.Len(t, res.Entries, 2)

	stock := f.svc.Stock(ctx)
	require.Len(t, stock, 1)
	assert.True(t, stock[0].Quantity.Equal(d("3")))

	persisted, err := f.repos.Stock.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, persisted, 1)
}

func TestClear_NoGeneraHistorico(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.RegisterEntry(ctx, entry("X", "2", "A1", ""))
	require.NoError(t, err)

	assert.Equal(t, 1, f.svc.ClearStock(ctx))
	assert.Empty(t, f.svc.Stock(ctx))
	assert.Len(t, f.svc.History(ctx), 1)

	assert.Equal(t, 1, f.svc.ClearHistory(ctx))
	assert.Empty(t, f.svc.History(ctx))

	stock, err := f.repos.Stock.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, stock)
}

func TestPersistencia_FallaNoInterrumpe(t *testing.T) {
	m := metrics.New("test")
	svc := inventory.NewService(errRepo{}, errHistoryRepo{}, inventory.WithMetrics(m))
	ctx := context.Background()

	_, err := svc.RegisterEntry(ctx, entry("X", "1", "A1", ""))
	require.NoError(t, err)
	assert.Len(t, svc.Stock(ctx), 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PersistFailures.WithLabelValues("stock")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PersistFailures.WithLabelValues("history")))
}

func TestLoad_RestauraEstadoPersistido(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.RegisterEntry(ctx, entry("X", "4", "A1", "L1"))
	require.NoError(t, err)

	reloaded := inventory.NewService(f.repos.Stock, f.repos.History)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, f.svc.Stock(ctx), reloaded.Stock(ctx))
	require.Len(t, reloaded.History(ctx), 1)
	assert.Equal(t, f.svc.History(ctx)[0].ID, reloaded.History(ctx)[0].ID)
}

// ─── Consultas ───────────────────────────────────────────────────────────────

func TestSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.svc.RegisterEntry(ctx, entry("A", "1.5", "E1", ""))
	_, _ = f.svc.RegisterEntry(ctx, entry("B", "2", "E1", ""))

	s := f.svc.Summary(ctx)
	assert.Equal(t, 2, s.Records)
	assert.True(t, s.TotalQuantity.Equal(d("3.5")))
}

func TestLotBreakdown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.svc.RegisterEntry(ctx, entry("X", "2", "E1", "L2"))
	_, _ = f.svc.RegisterEntry(ctx, entry("X", "3", "E2", "L2"))
	_, _ = f.svc.RegisterEntry(ctx, entry("X", "1", "E1", "L1"))
	_, _ = f.svc.RegisterEntry(ctx, entry("Y", "9", "E1", "L1"))

	b, err := f.svc.LotBreakdown(ctx, "x", "L2", "E2")
	require.NoError(t, err)
	assert.True(t, b.TotalQuantity.Equal(d("6")))
	require.Len(t, b.Lots, 2)
	assert.Equal(t, "L1", b.Lots[0].Lote)
	assert.True(t, b.Lots[1].Quantity.Equal(d("5")))
	require.NotNil(t, b.AtLocation)
	assert.True(t, b.AtLocation.Equal(d("3")))

	b, err = f.svc.LotBreakdown(ctx, "X", "", "")
	require.NoError(t, err)
	assert.Nil(t, b.AtLocation)

	_, err = f.svc.LotBreakdown(ctx, "Z", "", "")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSearch_SinDistinguirMayusculas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, _ = f.svc.RegisterEntry(ctx, dto.EntryRequest{Code: "P1", Description: "Parafuso sextavado", Quantity: d("1"), Address: "R1"})
	_, _ = f.svc.RegisterEntry(ctx, dto.EntryRequest{Code: "P2", Description: "Porca", Quantity: d("1"), Address: "R2", Lote: "SEXTA"})
	_, _ = f.svc.RegisterEntry(ctx, dto.EntryRequest{Code: "P3", Description: "Arruela", Quantity: d("1"), Address: "R3"})

	assert.Len(t, f.svc.Search(ctx, "SEXTA"), 2)
	assert.Len(t, f.svc.Search(ctx, "r3"), 1)
	assert.Len(t, f.svc.Search(ctx, ""), 3)
	assert.Empty(t, f.svc.Search(ctx, "inexistente"))
}
