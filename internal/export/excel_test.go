package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jinxiu-shop/storefront/internal/store"
)

func TestWriteOrdersReport(t *testing.T) {
	orders := []store.Order{
		{
			ID:     "order-1",
			UserID: "u1",
			Items: []store.CartItem{
				{Product: store.Product{ID: "1", Name: "龙凤呈祥织金马面裙", Price: 1299}, Quantity: 2},
				{Product: store.Product{ID: "5", Name: "水墨竹韵书香裙", Price: 750}, Quantity: 1},
			},
			Total:     3348,
			Status:    store.OrderShipped,
			CreatedAt: "2026-08-20T10:00:00Z",
		},
		{
			ID:        "order-2",
			UserID:    "u1",
			Items:     []store.CartItem{{Product: store.Product{ID: "2", Price: 899}, Quantity: 1}},
			Total:     899,
			Status:    store.OrderStatus("weird"),
			CreatedAt: "2026-08-21T09:30:00Z",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteOrdersReport(&buf, orders))

	workbook, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer workbook.Close()

	assert.Equal(t, []string{"订单"}, workbook.GetSheetList())

	rows, err := workbook.GetRows("订单")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"订单号", "用户ID", "商品件数", "下单时间", "状态", "金额"}, rows[0])

	assert.Equal(t, "order-1", rows[1][0])
	assert.Equal(t, "3", rows[1][2])
	assert.Equal(t, "已发货", rows[1][4])
	assert.Equal(t, "3348", rows[1][5])

	// An unmapped status falls back to its raw value.
	assert.Equal(t, "weird", rows[2][4])
}

func TestWriteOrdersReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrdersReport(&buf, nil))

	workbook, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows("订单")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
