//
// Tencent is pleased to support the open source community by making trpc-git-report available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-git-report is licensed under the Apache License Version 2.0.
//

// Package workbook renders a monthly report as an xlsx workbook.
package workbook

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"trpc.group/trpc-go/trpc-git-report/internal/fileutil"
	"trpc.group/trpc-go/trpc-git-report/report"
)

// SheetName is the name of the only sheet of the workbook.
const SheetName = "Report"

// Header is the first row of the sheet.
var Header = []string{"Date", "Activity", "Status"}

// Write renders data for month into dir and returns the path of the file.
// An existing file with the same name is replaced.
func Write(data report.Daily, month, dir string) (string, error) {
	name, err := report.FileName(month)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)

	file, err := build(data)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = file.Close()
	}()

	err = fileutil.WriteAtomic(path, func(w io.Writer) error {
		return file.Write(w)
	})
	if err != nil {
		return "", fmt.Errorf("save xlsx: %w", err)
	}
	return path, nil
}

func build(data report.Daily) (*excelize.File, error) {
	file := excelize.NewFile()
	if err := fill(file, data); err != nil {
		_ = file.Close()
		return nil, err
	}
	return file, nil
}

func fill(file *excelize.File, data report.Daily) error {
	originalSheet := file.GetSheetName(0)
	if err := file.SetSheetName(originalSheet, SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := setColumnWidths(file); err != nil {
		return err
	}

	header := make([]any, len(Header))
	for i, title := range Header {
		header[i] = title
	}
	if err := file.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := styleHeader(file); err != nil {
		return err
	}

	for i, date := range data.Dates() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("convert row cell: %w", err)
		}
		row := []any{date, data.Activity(date), report.StatusCompleted}
		if err := file.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write %s: %w", cell, err)
		}
	}
	return nil
}

func styleHeader(file *excelize.File) error {
	style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := file.SetCellStyle(SheetName, "A1", "C1", style); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	err = file.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	return nil
}

func setColumnWidths(file *excelize.File) error {
	if err := file.SetColWidth(SheetName, "A", "A", 12); err != nil {
		return fmt.Errorf("set width for A: %w", err)
	}
	if err := file.SetColWidth(SheetName, "B", "B", 100); err != nil {
		return fmt.Errorf("set width for B: %w", err)
	}
	if err := file.SetColWidth(SheetName, "C", "C", 12); err != nil {
		return fmt.Errorf("set width for C: %w", err)
	}
	return nil
}
