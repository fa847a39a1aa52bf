package export

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/piwi3910/BoardFit/internal/model"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")

	if err := ExportLabels(path, buildTestResult()); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	assertFileWritten(t, path)
}

func TestExportLabels_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	if err := ExportLabels(path, model.NewResult(model.StrategyGuillotine, nil, nil)); err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}

func TestExportLabels_NoPlacements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no_placements.pdf")

	board := model.NewStockBoard("b", 1000, 500)
	r := model.NewResult(model.StrategyGuillotine, nil, []model.StockBoard{board})
	r.Commit(board, nil)

	if err := ExportLabels(path, r); err == nil {
		t.Fatal("expected error for result with no placements, got nil")
	}
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildTestResult())

	if len(labels) != 4 {
		t.Fatalf("expected 4 labels, got %d", len(labels))
	}
	if labels[0].PartID != "side" {
		t.Errorf("expected first label to be 'side', got %q", labels[0].PartID)
	}
	if labels[0].Length != 600 || labels[0].Width != 400 {
		t.Errorf("wrong dimensions: got %.0fx%.0f, want 600x400", labels[0].Length, labels[0].Width)
	}
	if labels[1].OffsetLength != 610 || labels[1].OffsetWidth != 0 {
		t.Errorf("wrong offset: got (%.0f, %.0f), want (610, 0)", labels[1].OffsetLength, labels[1].OffsetWidth)
	}
	if labels[3].BoardIndex != 2 || labels[3].BoardID != "mdf" {
		t.Errorf("expected fourth label on board 2 (mdf), got %d (%s)", labels[3].BoardIndex, labels[3].BoardID)
	}
}

func TestLabelInfo_JSONKeys(t *testing.T) {
	data, err := json.Marshal(LabelInfo{PartID: "shelf", Length: 400, Width: 300, BoardIndex: 1, BoardID: "ply"})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	for _, key := range []string{"part", "length_mm", "width_mm", "board", "board_id", "offset_length_mm", "offset_width_mm"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("QR payload is missing key %q", key)
		}
	}
}

func TestExportLabels_ManyParts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many_labels.pdf")

	// 35 placements span two label pages
	board := model.NewStockBoard("large", 5000, 3000)
	placements := make([]model.Placement, 35)
	for i := range placements {
		placements[i] = model.Placement{
			Part:         model.NewPart(fmt.Sprintf("part-%02d", i+1), 100, 50),
			BoardID:      board.ID,
			OffsetLength: float64(i * 110),
			OffsetWidth:  10,
		}
	}
	r := model.NewResult(model.StrategyGuillotine, nil, []model.StockBoard{board})
	r.Commit(board, placements)

	if err := ExportLabels(path, r); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	assertFileWritten(t, path)
}
