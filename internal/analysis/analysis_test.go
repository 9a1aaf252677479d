package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rhodri-Thomas/AnalyseProductTree/internal/bom"
)

func id(t *testing.T, s string) bom.ItemNo {
	t.Helper()
	n := bom.NormalizeItemNo(s)
	require.True(t, n.Valid(), "test identifier %q must normalize", s)
	return n
}

// addProduct registers a product and wires its component edges in order.
func addProduct(t *testing.T, cat *bom.Catalogue, itemNo string, replen bom.ReplenishmentSystem, unitCost float64, refs ...bom.ComponentRef) *bom.Product {
	t.Helper()
	p := cat.GetOrCreate(id(t, itemNo), replen, unitCost)
	p.Components = append(p.Components, refs...)
	return p
}

func ref(t *testing.T, component string, qty float64) bom.ComponentRef {
	t.Helper()
	return bom.ComponentRef{Component: id(t, component), QtyPer: qty}
}

func TestLeafProduct_DepthZeroCostZero(t *testing.T) {
	cat := bom.NewCatalogue()
	addProduct(t, cat, "1000", bom.ReplenishmentPurchase, 12.5)

	depths, err := ComputeDepths(cat)
	require.NoError(t, err)
	assert.Equal(t, 0, depths[id(t, "1000")])

	res, err := RollUpCost(cat, id(t, "1000"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Total, "a root with no components costs nothing, even a Purchase item")
	assert.Empty(t, res.Lines)
}

func TestRollUpCost_SingleLevel(t *testing.T) {
	cat := bom.NewCatalogue()
	addProduct(t, cat, "1000", bom.ReplenishmentProdOrder, 0, ref(t, "1100", 2))
	c1 := addProduct(t, cat, "1100", bom.ReplenishmentPurchase, 5.0)

	res, err := RollUpCost(cat, id(t, "1000"))
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.Total)
	assert.Equal(t, 2.0, c1.QtyPerTop)

	require.Len(t, res.Lines, 1)
	line := res.Lines[0]
	assert.Equal(t, "1100", line.Component.String())
	assert.Equal(t, 10.0, line.ComponentCost)
	assert.Equal(t, 1, line.Level)
}

func TestRollUpCost_MultiLevel(t *testing.T) {
	// 1000 -> 2x 1100 (Prod. Order) -> 3x 1200 (Purchase @ 4.0)
	cat := bom.NewCatalogue()
	addProduct(t, cat, "1000", bom.ReplenishmentProdOrder, 0, ref(t, "1100", 2))
	addProduct(t, cat, "1100", bom.ReplenishmentProdOrder, 99, ref(t, "1200", 3))
	c2 := addProduct(t, cat, "1200", bom.ReplenishmentPurchase, 4.0)

	res, err := RollUpCost(cat, id(t, "1000"))
	require.NoError(t, err)
	assert.Equal(t, 24.0, res.Total)
	assert.Equal(t, 6.0, c2.QtyPerTop)

	depths, err := ComputeDepths(cat)
	require.NoError(t, err)
	assert.Equal(t, 2, depths[id(t, "1000")])
}

func TestRollUpCost_ProdOrderUnitCostIgnored(t *testing.T) {
	cat := bom.NewCatalogue()
	addProduct(t, cat, "1000", bom.ReplenishmentProdOrder, 0, ref(t, "1100", 4))
	addProduct(t, cat, "1100", bom.ReplenishmentProdOrder, 50.0)

	res, err := RollUpCost(cat, id(t, "1000"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Total, "Prod. Order unit cost must not contribute")
	require.Len(t, res.Lines, 1)
	assert.Equal(t, 0.0, res.Lines[0].ComponentCost)
	assert.Equal(t, 4.0, res.Lines[0].QtyPerTop)
}

func TestRollUpCost_DuplicateReferenceCountsTwice(t *testing.T) {
	cat := bom.NewCatalogue()
	addProduct(t, cat, "1000", bom.ReplenishmentProdOrder, 0,
		ref(t, "1100", 2), ref(t, "1100", 2))
	addProduct(t, cat, "1100", bom.ReplenishmentPurchase, 5.0)

	res, err := RollUpCost(cat, id(t, "1000"))
	require.NoError(t, err)
	assert.Equal(t, 20.0, res.Total, "both retained edges participate in the crawl")
	assert.Len(t, res.Lines, 2)
}

func TestUnresolvedReference_DiagnosticNotError(t *testing.T) {
	cat := bom.NewCatalogue()
	p1 := addProduct(t, cat, "1000", bom.ReplenishmentProdOrder, 0, ref(t, "9999", 1))

	Validate(cat)
	require.Len(t, p1.Diagnostics, 1)
	assert.Contains(t, p1.Diagnostics[0], "1000")
	assert.Contains(t, p1.Diagnostics[0], "9999")
	assert.Contains(t, p1.Diagnostics[0], "no definition in the source data")

	// The depth pass re-derives the same warning rather than deduplicating.
	_, err := ComputeDepths(cat)
	require.NoError(t, err)
	assert.Len(t, p1.Diagnostics, 2)

	res, err := RollUpCost(cat, id(t, "1000"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Total)
	assert.Len(t, p1.Diagnostics, 3)
}

func TestComputeDepths_UnresolvedEdgeCountsOneLevel(t *testing.T) {
	cat := bom.NewCatalogue()
	addProduct(t, cat, "1000", bom.ReplenishmentProdOrder, 0, ref(t, "9999", 1))

	depths, err := ComputeDepths(cat)
	require.NoError(t, err)
	assert.Equal(t, 1, depths[id(t, "1000")])
}

func TestComputeDepths_SharedSubProductKeepsLastRootsValue(t *testing.T) {
	// 1000 -> 1100 -> 1200 and 2000 -> 1200: after the full pass the shared
	// 1200 holds the depth written by the last root that reached it.
	cat := bom.NewCatalogue()
	addProduct(t, cat, "1000", bom.ReplenishmentProdOrder, 0, ref(t, "1100", 1))
	addProduct(t, cat, "1100", bom.ReplenishmentProdOrder, 0, ref(t, "1200", 1))
	mid := addProduct(t, cat, "1200", bom.ReplenishmentPurchase, 1)
	addProduct(t, cat, "2000", bom.ReplenishmentProdOrder, 0, ref(t, "1200", 1))

	depths, err := ComputeDepths(cat)
	require.NoError(t, err)
	assert.Equal(t, 2, depths[id(t, "1000")])
	assert.Equal(t, 1, depths[id(t, "2000")])
	assert.Equal(t, 0, mid.Depth, "1200 itself was a root too and ends at its own depth")
}

func TestQtyPerTop_LastRootWins(t *testing.T) {
	cat := bom.NewCatalogue()
	addProduct(t, cat, "1000", bom.ReplenishmentProdOrder, 0, ref(t, "1200", 2))
	addProduct(t, cat, "2000", bom.ReplenishmentProdOrder, 0, ref(t, "1200", 5))
	shared := addProduct(t, cat, "1200", bom.ReplenishmentPurchase, 1)

	_, err := RollUpCost(cat, id(t, "1000"))
	require.NoError(t, err)
	assert.Equal(t, 2.0, shared.QtyPerTop)

	_, err = RollUpCost(cat, id(t, "2000"))
	require.NoError(t, err)
	assert.Equal(t, 5.0, shared.QtyPerTop, "field is only valid for the root just processed")
}

func TestIdempotence_NumbersStableDiagnosticsAppend(t *testing.T) {
	cat := bom.NewCatalogue()
	addProduct(t, cat, "1000", bom.ReplenishmentProdOrder, 0,
		ref(t, "1100", 2), ref(t, "9999", 1))
	addProduct(t, cat, "1100", bom.ReplenishmentPurchase, 3.0)

	first, err := RollUpAllCosts(cat)
	require.NoError(t, err)
	second, err := RollUpAllCosts(cat)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Total, second[i].Total)
	}

	p1, _ := cat.Lookup(id(t, "1000"))
	assert.Len(t, p1.Diagnostics, 2, "each pass appended its own unresolved warning")
}

func TestCycle_FailsFast(t *testing.T) {
	cat := bom.NewCatalogue()
	addProduct(t, cat, "1000", bom.ReplenishmentProdOrder, 0, ref(t, "1100", 1))
	addProduct(t, cat, "1100", bom.ReplenishmentProdOrder, 0, ref(t, "1000", 1))

	_, err := ComputeDepths(cat)
	require.ErrorIs(t, err, ErrCycleDetected)
	assert.Contains(t, err.Error(), "1000 -> 1100 -> 1000")

	_, err = RollUpCost(cat, id(t, "1000"))
	require.ErrorIs(t, err, ErrCycleDetected)
}

func TestSelfReference_IsACycle(t *testing.T) {
	cat := bom.NewCatalogue()
	addProduct(t, cat, "1000", bom.ReplenishmentProdOrder, 0, ref(t, "1000", 1))

	_, err := ComputeDepths(cat)
	require.ErrorIs(t, err, ErrCycleDetected)
}

func TestRollUpCost_UnknownRoot(t *testing.T) {
	cat := bom.NewCatalogue()
	_, err := RollUpCost(cat, id(t, "1000"))
	require.ErrorIs(t, err, ErrUnknownRoot)
}

func TestRun_FullAnalysis(t *testing.T) {
	cat := bom.NewCatalogue()
	addProduct(t, cat, "1000", bom.ReplenishmentProdOrder, 0,
		ref(t, "1100", 2), ref(t, "9999", 1))
	addProduct(t, cat, "1100", bom.ReplenishmentProdOrder, 0, ref(t, "1200", 3))
	addProduct(t, cat, "1200", bom.ReplenishmentPurchase, 4.0)

	res, err := Run(cat)
	require.NoError(t, err)

	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "9999")

	assert.Equal(t, 2, res.Depths[id(t, "1000")])
	assert.Equal(t, 1, res.Depths[id(t, "1100")])
	assert.Equal(t, 0, res.Depths[id(t, "1200")])

	require.Len(t, res.Costs, 3)
	assert.Equal(t, "1000", res.Costs[0].Root.String())
	assert.Equal(t, 24.0, res.Costs[0].Total)
	assert.Equal(t, 12.0, res.Costs[1].Total)
	assert.Equal(t, 0.0, res.Costs[2].Total)
}
