package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"reprasp/internal/models"
)

var (
	errBadLines  = fmt.Errorf("expected two lines: %w", models.ErrInvalidFormat)
	errBadGroup  = fmt.Errorf("bad group name: %w", models.ErrInvalidFormat)
	errBadDate   = fmt.Errorf("bad date: %w", models.ErrInvalidFormat)
	errBadUserID = fmt.Errorf("bad user id: %w", models.ErrInvalidFormat)
)

// ParseEntryInput splits "{group}\n{DD.MM.YYYY HH:MM}" and validates both
// parts. Blank lines are ignored.
func ParseEntryInput(text string, loc *time.Location) (group, datetime string, err error) {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) != 2 {
		return "", "", errBadLines
	}

	if group, err = models.NormalizeGroupName(lines[0]); err != nil {
		return "", "", errBadGroup
	}
	if _, err = models.ParseDateTime(lines[1], loc); err != nil {
		return "", "", errBadDate
	}
	return group, lines[1], nil
}

// ParseUserID parses a Telegram user id typed by an admin.
func ParseUserID(text string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadUserID
	}
	return id, nil
}

// webAppPayload is what the Web App sends through Telegram.WebApp.sendData.
type webAppPayload struct {
	Action   string `json:"action"`
	TextData string `json:"text_data"`
}

func parseWebAppData(data string) (models.Action, string, error) {
	var p webAppPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return "", "", fmt.Errorf("decode web app data: %w", err)
	}
	action, err := models.ParseAction(p.Action)
	if err != nil {
		return "", "", err
	}
	return action, p.TextData, nil
}

// Callback data prefixes
const (
	cbMenu    = "menu"
	cbRequest = "req"

	menuAdd         = "add"
	menuDelete      = "delete"
	menuSchedule    = "schedule"
	menuAddAdmin    = "add_admin"
	menuRemoveAdmin = "remove_admin"

	reqApprove = "approve"
	reqReject  = "reject"
	reqEdit    = "edit"
)

func menuData(item string) string {
	return cbMenu + ":" + item
}

func requestData(op string, id uint) string {
	return fmt.Sprintf("%s:%s:%d", cbRequest, op, id)
}

// parseRequestData parses "req:<op>:<id>".
func parseRequestData(data string) (string, uint, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 || parts[0] != cbRequest {
		return "", 0, fmt.Errorf("invalid data format: %s", data)
	}
	switch parts[1] {
	case reqApprove, reqReject, reqEdit:
	default:
		return "", 0, fmt.Errorf("unknown request operation: %s", parts[1])
	}
	id, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil || id == 0 {
		return "", 0, errors.New("invalid request id in " + data)
	}
	return parts[1], uint(id), nil
}

// commandName returns "/start" for "/start@my_bot args" and "" for plain text.
func commandName(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := strings.Fields(text)[0]
	if at := strings.Index(cmd, "@"); at > 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd)
}
