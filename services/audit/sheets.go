package audit

import (
	"context"
	"fmt"
	"time"

	"salonai/models"
	"salonai/utils"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// Recorder appends interaction rows to the audit log. Recording is
// best-effort: failures are logged and never propagate to the user-facing
// request.
type Recorder interface {
	Record(ctx context.Context, entry models.AuditEntry)
}

// NopRecorder discards entries; used when no sheet is configured.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, models.AuditEntry) {}

const appendRange = "Sheet1!A:H"

var headerRow = []interface{}{
	"Timestamp", "User ID", "User Name", "User Message",
	"Bot Response", "Action Type", "Error", "Processing Time (ms)",
}

// SheetsRecorder appends one row per interaction to a Google Sheet.
type SheetsRecorder struct {
	svc     *sheets.Service
	sheetID string
	loc     *time.Location
}

func NewSheetsRecorder(ctx context.Context, credentialsJSON []byte, sheetID string, loc *time.Location) (*SheetsRecorder, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	r := &SheetsRecorder{svc: svc, sheetID: sheetID, loc: loc}
	if err := r.ensureHeaders(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// ensureHeaders writes the column header row when the sheet is empty.
func (r *SheetsRecorder) ensureHeaders(ctx context.Context) error {
	resp, err := r.svc.Spreadsheets.Values.Get(r.sheetID, "Sheet1!A1:H1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to inspect audit sheet %s: %w", r.sheetID, err)
	}
	if len(resp.Values) > 0 {
		return nil
	}
	_, err = r.svc.Spreadsheets.Values.Append(r.sheetID, appendRange,
		&sheets.ValueRange{Values: [][]interface{}{headerRow}}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write audit sheet headers: %w", err)
	}
	return nil
}

func (r *SheetsRecorder) Record(ctx context.Context, entry models.AuditEntry) {
	row := []interface{}{
		time.Now().In(r.loc).Format("2006-01-02 15:04:05"),
		entry.UserID,
		entry.UserName,
		entry.UserMessage,
		entry.BotResponse,
		entry.ActionType,
		entry.ErrorMessage,
		fmt.Sprintf("%d", entry.ProcessingMS),
	}
	_, err := r.svc.Spreadsheets.Values.Append(r.sheetID, appendRange,
		&sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		utils.GetLogger().Error("failed to append audit log row",
			zap.String("userID", entry.UserID), zap.Error(err))
		return
	}
	utils.GetLogger().Debug("audit row recorded", zap.String("userID", entry.UserID))
}
