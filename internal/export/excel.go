package export

import (
	"fmt"
	"io"

	"github.com/jinxiu-shop/storefront/internal/store"
	"github.com/xuri/excelize/v2"
)

var statusDisplay = map[store.OrderStatus]string{
	store.OrderPending:   "待发货",
	store.OrderShipped:   "已发货",
	store.OrderDelivered: "已送达",
	store.OrderCancelled: "已取消",
}

// WriteOrdersReport renders the merchant's order list as an xlsx workbook.
func WriteOrdersReport(w io.Writer, orders []store.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "订单"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"订单号", "用户ID", "商品件数", "下单时间", "状态", "金额"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	rowIndex := 2
	for _, order := range orders {
		itemCount := 0
		for _, item := range order.Items {
			itemCount += item.Quantity
		}

		status := statusDisplay[order.Status]
		if status == "" {
			status = string(order.Status)
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIndex), order.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowIndex), order.UserID)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowIndex), itemCount)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowIndex), order.CreatedAt)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowIndex), status)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowIndex), order.Total)
		rowIndex++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
