package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reprasp/internal/models"
)

func TestParseEntryInput(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantGroup string
		wantDate  string
		wantErr   error
	}{
		{name: "two lines", text: "The Geese\n01.06.2030 18:00", wantGroup: "The Geese", wantDate: "01.06.2030 18:00"},
		{name: "crlf and padding", text: "  The Geese \r\n 01.06.2030 18:00 \r\n", wantGroup: "The Geese", wantDate: "01.06.2030 18:00"},
		{name: "blank lines ignored", text: "\nThe Geese\n\n01.06.2030 18:00\n", wantGroup: "The Geese", wantDate: "01.06.2030 18:00"},
		{name: "single line", text: "The Geese 01.06.2030 18:00", wantErr: errBadLines},
		{name: "three lines", text: "a\nb\nc", wantErr: errBadLines},
		{name: "bad date", text: "The Geese\n2030-06-01 18:00", wantErr: errBadDate},
		{name: "impossible date", text: "The Geese\n31.02.2030 18:00", wantErr: errBadDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, date, err := ParseEntryInput(tt.text, time.UTC)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, models.ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantGroup, group)
			assert.Equal(t, tt.wantDate, date)
		})
	}
}

func TestParseUserID(t *testing.T) {
	id, err := ParseUserID(" 123456 ")
	require.NoError(t, err)
	assert.Equal(t, int64(123456), id)

	for _, bad := range []string{"", "abc", "0", "-5", "12 34"} {
		_, err := ParseUserID(bad)
		assert.ErrorIs(t, err, errBadUserID, bad)
	}
}

func TestParseWebAppData(t *testing.T) {
	action, text, err := parseWebAppData(`{"action":"delete","text_data":"The Geese\n01.06.2030 18:00"}`)
	require.NoError(t, err)
	assert.Equal(t, models.ActionDelete, action)
	assert.Equal(t, "The Geese\n01.06.2030 18:00", text)

	_, _, err = parseWebAppData(`{"action":"move","text_data":"x"}`)
	assert.ErrorIs(t, err, models.ErrInvalidFormat)

	_, _, err = parseWebAppData(`not json`)
	assert.Error(t, err)
}

func TestRequestCallbackData(t *testing.T) {
	data := requestData(reqApprove, 17)
	assert.Equal(t, "req:approve:17", data)

	op, id, err := parseRequestData(data)
	require.NoError(t, err)
	assert.Equal(t, reqApprove, op)
	assert.Equal(t, uint(17), id)

	for _, bad := range []string{"req:approve", "req:burn:1", "menu:add:1", "req:reject:0", "req:edit:x"} {
		_, _, err := parseRequestData(bad)
		assert.Error(t, err, bad)
	}
}

func TestCommandName(t *testing.T) {
	assert.Equal(t, "/start", commandName("/start"))
	assert.Equal(t, "/start", commandName("/START@reprasp_bot now"))
	assert.Equal(t, "/help", commandName("/help me"))
	assert.Equal(t, "", commandName("hello /start"))
	assert.Equal(t, "", commandName(""))
}
