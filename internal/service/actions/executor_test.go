package actions

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dembasy/ranchhand/internal/domain/models"
	repo "github.com/dembasy/ranchhand/internal/repository/mongodb"
	"github.com/dembasy/ranchhand/internal/service/farm"
)

// fakeRepo is an in-memory stand-in for the Mongo repository. Unimplemented
// interface methods panic via the embedded nil interface, which keeps each
// test honest about what it touches.
type fakeRepo struct {
	repo.Repository

	cattle     map[string]models.Cattle
	pens       map[string]models.Pen
	barns      map[string]models.Barn
	inventory  map[string]models.InventoryItem
	health     []models.HealthRecord
	weights    []models.WeightRecord
	activities []models.Activity

	failInserts bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		cattle:    map[string]models.Cattle{},
		pens:      map[string]models.Pen{},
		barns:     map[string]models.Barn{},
		inventory: map[string]models.InventoryItem{},
	}
}

var errStoreDown = errors.New("store unavailable")

func (f *fakeRepo) InsertCattle(_ context.Context, c models.Cattle) error {
	if f.failInserts {
		return errStoreDown
	}
	f.cattle[c.ID] = c
	return nil
}

func (f *fakeRepo) UpdateCattle(_ context.Context, c models.Cattle) error {
	if _, ok := f.cattle[c.ID]; !ok {
		return repo.ErrNotFound
	}
	f.cattle[c.ID] = c
	return nil
}

func (f *fakeRepo) DeleteCattle(_ context.Context, _, cattleID string) error {
	if _, ok := f.cattle[cattleID]; !ok {
		return repo.ErrNotFound
	}
	delete(f.cattle, cattleID)
	return nil
}

func (f *fakeRepo) FindCattleByTag(_ context.Context, _, tag string) (*models.Cattle, error) {
	for _, c := range f.cattle {
		if c.TagNumber == tag {
			c := c
			return &c, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRepo) ListCattle(_ context.Context, _ string) ([]models.Cattle, error) {
	out := make([]models.Cattle, 0, len(f.cattle))
	for _, c := range f.cattle {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRepo) CountActiveCattleInPen(_ context.Context, _, penID string) (int64, error) {
	var n int64
	for _, c := range f.cattle {
		if c.PenID == penID && c.Status == models.CattleStatusActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) InsertPen(_ context.Context, p models.Pen) error {
	f.pens[p.ID] = p
	return nil
}

func (f *fakeRepo) UpdatePen(_ context.Context, p models.Pen) error {
	if _, ok := f.pens[p.ID]; !ok {
		return repo.ErrNotFound
	}
	f.pens[p.ID] = p
	return nil
}

func (f *fakeRepo) DeletePen(_ context.Context, _, penID string) error {
	if _, ok := f.pens[penID]; !ok {
		return repo.ErrNotFound
	}
	delete(f.pens, penID)
	return nil
}

func (f *fakeRepo) FindPenByName(_ context.Context, _, name string) (*models.Pen, error) {
	for _, p := range f.pens {
		if p.Name == name {
			p := p
			return &p, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRepo) ListPens(_ context.Context, _ string) ([]models.Pen, error) {
	out := make([]models.Pen, 0, len(f.pens))
	for _, p := range f.pens {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRepo) InsertBarn(_ context.Context, b models.Barn) error {
	f.barns[b.ID] = b
	return nil
}

func (f *fakeRepo) FindBarnByName(_ context.Context, _, name string) (*models.Barn, error) {
	for _, b := range f.barns {
		if b.Name == name {
			b := b
			return &b, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRepo) InsertInventoryItem(_ context.Context, item models.InventoryItem) error {
	f.inventory[item.ID] = item
	return nil
}

func (f *fakeRepo) UpdateInventoryItem(_ context.Context, item models.InventoryItem) error {
	f.inventory[item.ID] = item
	return nil
}

func (f *fakeRepo) FindInventoryItemByName(_ context.Context, _, name string) (*models.InventoryItem, error) {
	for _, item := range f.inventory {
		if item.Name == name {
			item := item
			return &item, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeRepo) ListInventory(_ context.Context, _ string) ([]models.InventoryItem, error) {
	out := make([]models.InventoryItem, 0, len(f.inventory))
	for _, item := range f.inventory {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRepo) InsertHealthRecord(_ context.Context, rec models.HealthRecord) error {
	f.health = append(f.health, rec)
	return nil
}

func (f *fakeRepo) InsertWeightRecord(_ context.Context, rec models.WeightRecord) error {
	f.weights = append(f.weights, rec)
	return nil
}

func (f *fakeRepo) InsertActivity(_ context.Context, act models.Activity) error {
	f.activities = append(f.activities, act)
	return nil
}

func (f *fakeRepo) ListActivities(_ context.Context, _ string, _ int64) ([]models.Activity, error) {
	return f.activities, nil
}

type fakeSummarizer struct {
	snap *farm.Snapshot
	err  error
}

func (f *fakeSummarizer) Snapshot(context.Context, string) (*farm.Snapshot, error) {
	return f.snap, f.err
}

func newTestService(r repo.Repository) *Service {
	svc := NewService(r, &fakeSummarizer{snap: &farm.Snapshot{}}, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestExecuteUnknownActionNeverErrors(t *testing.T) {
	svc := newTestService(newFakeRepo())

	for _, name := range []string{"launchRocket", "", "ADDCATTLE", "drop tables"} {
		res := svc.Execute(context.Background(), "user-1", models.ActionDescriptor{Action: models.ActionType(name)})
		assert.False(t, res.Success)
		assert.Equal(t, "Unknown action: "+name, res.Message)
	}
}

func TestAddCattleEmptyParamsUsesDefaults(t *testing.T) {
	r := newFakeRepo()
	svc := newTestService(r)

	res := svc.Execute(context.Background(), "user-1", models.ActionDescriptor{Action: models.ActionAddCattle, Params: map[string]any{}})
	require.True(t, res.Success, res.Error)

	c, ok := res.Data.(models.Cattle)
	require.True(t, ok)
	assert.Equal(t, DefaultBreed, c.Breed)
	assert.Equal(t, DefaultSex, c.Sex)
	assert.Zero(t, c.CurrentWeight)
	assert.Equal(t, models.CattleStatusActive, c.Status)
	assert.Equal(t, models.HealthStatusHealthy, c.HealthStatus)
	assert.Regexp(t, regexp.MustCompile(`^AUTO_\d+$`), c.TagNumber)
	assert.Len(t, r.cattle, 1)
}

func TestAddCattleIntoPenIncrementsCount(t *testing.T) {
	r := newFakeRepo()
	r.pens["p1"] = models.Pen{ID: "p1", UserID: "user-1", Name: "North Pen", Capacity: 50, CurrentCount: 2}
	svc := newTestService(r)

	res := svc.Execute(context.Background(), "user-1", models.ActionDescriptor{
		Action: models.ActionAddCattle,
		Params: map[string]any{"tagNumber": "A100", "penName": "North Pen"},
	})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 3, r.pens["p1"].CurrentCount)

	c := res.Data.(models.Cattle)
	assert.Equal(t, "p1", c.PenID)
}

func TestAddCattleStoreFailureBecomesResult(t *testing.T) {
	r := newFakeRepo()
	r.failInserts = true
	svc := newTestService(r)

	res := svc.Execute(context.Background(), "user-1", models.ActionDescriptor{Action: models.ActionAddCattle})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "store unavailable")
}

func TestAddPenDefaultCapacity(t *testing.T) {
	r := newFakeRepo()
	svc := newTestService(r)

	res := svc.Execute(context.Background(), "user-1", models.ActionDescriptor{
		Action: models.ActionAddPen,
		Params: map[string]any{"name": "North Pen"},
	})
	require.True(t, res.Success, res.Error)

	pen, ok := res.Data.(models.Pen)
	require.True(t, ok)
	assert.Equal(t, "North Pen", pen.Name)
	assert.Equal(t, DefaultPenCapacity, pen.Capacity)
	assert.Zero(t, pen.CurrentCount)
}

func TestUpdateCattleAppliesOnlyProvidedFields(t *testing.T) {
	r := newFakeRepo()
	r.cattle["c1"] = models.Cattle{ID: "c1", UserID: "user-1", TagNumber: "A12", Breed: "Angus", Sex: "Heifer", Status: models.CattleStatusActive}
	svc := newTestService(r)

	res := svc.Execute(context.Background(), "user-1", models.ActionDescriptor{
		Action: models.ActionUpdateCattle,
		Params: map[string]any{"tagNumber": "A12", "weight": 520.0},
	})
	require.True(t, res.Success, res.Error)

	updated := r.cattle["c1"]
	assert.Equal(t, "Angus", updated.Breed)
	assert.Equal(t, 520.0, updated.CurrentWeight)
}

func TestUpdateCattleUnknownTag(t *testing.T) {
	svc := newTestService(newFakeRepo())

	res := svc.Execute(context.Background(), "user-1", models.ActionDescriptor{
		Action: models.ActionUpdateCattle,
		Params: map[string]any{"tagNumber": "NOPE"},
	})
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "NOPE")
}

func TestDeleteCattleRemovesRecord(t *testing.T) {
	r := newFakeRepo()
	r.cattle["c1"] = models.Cattle{ID: "c1", UserID: "user-1", TagNumber: "A12"}
	svc := newTestService(r)

	res := svc.Execute(context.Background(), "user-1", models.ActionDescriptor{
		Action: models.ActionDeleteCattle,
		Params: map[string]any{"tagNumber": "A12"},
	})
	require.True(t, res.Success, res.Error)
	assert.Empty(t, r.cattle)
}

func TestAddWeightRecordUpdatesCurrentWeight(t *testing.T) {
	r := newFakeRepo()
	r.cattle["c1"] = models.Cattle{ID: "c1", UserID: "user-1", TagNumber: "A12", CurrentWeight: 400}
	svc := newTestService(r)

	res := svc.Execute(context.Background(), "user-1", models.ActionDescriptor{
		Action: models.ActionAddWeightRecord,
		Params: map[string]any{"tagNumber": "A12", "weight": 455.0},
	})
	require.True(t, res.Success, res.Error)
	require.Len(t, r.weights, 1)
	assert.Equal(t, 455.0, r.weights[0].Weight)
	assert.Equal(t, 455.0, r.cattle["c1"].CurrentWeight)
}

func TestAddHealthRecordConsumesInventory(t *testing.T) {
	r := newFakeRepo()
	r.cattle["c1"] = models.Cattle{ID: "c1", UserID: "user-1", TagNumber: "A12", HealthStatus: models.HealthStatusHealthy}
	r.inventory["d1"] = models.InventoryItem{ID: "d1", UserID: "user-1", Name: "Penicillin", Category: models.InventoryCategoryDrug, Quantity: 5, WithdrawalPeriod: 14}
	svc := newTestService(r)

	res := svc.Execute(context.Background(), "user-1", models.ActionDescriptor{
		Action: models.ActionAddHealthRecord,
		Params: map[string]any{"tagNumber": "A12", "drugName": "Penicillin", "dosage": "10ml"},
	})
	require.True(t, res.Success, res.Error)

	require.Len(t, r.health, 1)
	assert.Equal(t, 14, r.health[0].WithdrawalPeriod)
	assert.Equal(t, 4.0, r.inventory["d1"].Quantity)
	assert.Equal(t, models.HealthStatusTreatment, r.cattle["c1"].HealthStatus)
}

func TestGetCattleCountByPenUsesLiveCounts(t *testing.T) {
	r := newFakeRepo()
	r.pens["p1"] = models.Pen{ID: "p1", UserID: "user-1", Name: "North Pen", Capacity: 50, CurrentCount: 99}
	r.cattle["c1"] = models.Cattle{ID: "c1", UserID: "user-1", TagNumber: "A1", PenID: "p1", Status: models.CattleStatusActive}
	r.cattle["c2"] = models.Cattle{ID: "c2", UserID: "user-1", TagNumber: "A2", PenID: "p1", Status: models.CattleStatusSold}
	svc := newTestService(r)

	res := svc.Execute(context.Background(), "user-1", models.ActionDescriptor{Action: models.ActionGetCattleCountByPen})
	require.True(t, res.Success, res.Error)

	counts := res.Data.([]PenCount)
	require.Len(t, counts, 1)
	assert.Equal(t, int64(1), counts[0].Count)
}

func TestAddMedicationDefaults(t *testing.T) {
	r := newFakeRepo()
	svc := newTestService(r)

	res := svc.Execute(context.Background(), "user-1", models.ActionDescriptor{
		Action: models.ActionAddMedication,
		Params: map[string]any{"name": "LA-200", "quantity": 12.0},
	})
	require.True(t, res.Success, res.Error)

	item := res.Data.(models.InventoryItem)
	assert.Equal(t, models.InventoryCategoryDrug, item.Category)
	assert.Equal(t, float64(DefaultReorderPoint), item.ReorderPoint)
}

func TestDecodeParamsIgnoresWrongTypes(t *testing.T) {
	var p addCattleParams
	decodeParams(map[string]any{"breed": "Hereford", "weight": "not-a-number"}, &p)
	// weight stays zero and picks up the documented default downstream
	assert.Zero(t, p.Weight)
}
