package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giftbot/internal/models"
	"giftbot/internal/service"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"3000", 3000, false},
		{"  3000  ", 3000, false},
		{"3 000", 3000, false},
		{"3000 ₽", 3000, false},
		{"$150", 150, false},
		{"0", 0, false},
		{"-5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"10.50", 0, true},
	}

	for _, tt := range tests {
		got, err := parseAmount(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParseTarget(t *testing.T) {
	id, name, err := parseTarget("12345")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), id)
	assert.Empty(t, name)

	id, name, err = parseTarget("  12345 Uncle Vanya ")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), id)
	assert.Equal(t, "Uncle Vanya", name)

	_, _, err = parseTarget("")
	assert.Error(t, err)
	_, _, err = parseTarget("@vanya")
	assert.Error(t, err)
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Alice", firstName("Alice Johnson"))
	assert.Equal(t, "Alice", firstName("Alice"))
	assert.Equal(t, "", firstName(""))
}

func TestNoticeFor(t *testing.T) {
	for _, err := range []error{
		service.ErrBanned,
		service.ErrNotFound,
		service.ErrPermissionDenied,
		service.ErrSelfBan,
		service.ErrAlreadyJoined,
		service.ErrNoContribution,
		service.ErrEmptyName,
		service.ErrInvalidAmount,
		service.ErrFactLength,
	} {
		notice, ok := noticeFor(err)
		assert.True(t, ok, "error %v", err)
		assert.NotEmpty(t, notice, "error %v", err)
	}

	// Wrapped sentinels are still recognized.
	notice, ok := noticeFor(fmt.Errorf("lookup gift 7: %w", service.ErrNotFound))
	assert.True(t, ok)
	assert.NotEmpty(t, notice)

	_, ok = noticeFor(errors.New("database on fire"))
	assert.False(t, ok)
}

func TestGiftDetailKeyboard(t *testing.T) {
	gift := &models.Gift{ID: 7, Name: "Drill", Status: models.GiftStatusAvailable}

	// Available: a claim button plus already-has, no admin row.
	kb := giftDetailKeyboard(gift, 100, false)
	assert.Equal(t, "claim:7", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "already_has:7", *kb.InlineKeyboard[1][0].CallbackData)
	require.Len(t, kb.InlineKeyboard, 3)

	// Claimed, viewer not contributing: join.
	gift.Status = models.GiftStatusClaimed
	gift.Contributions = []*models.Contribution{{GiftID: 7, UserID: 200}}
	kb = giftDetailKeyboard(gift, 100, false)
	assert.Equal(t, "join:7", *kb.InlineKeyboard[0][0].CallbackData)

	// Claimed, viewer contributing: pledge, withdraw, bought.
	kb = giftDetailKeyboard(gift, 200, false)
	assert.Equal(t, "pledge:7", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "withdraw:7", *kb.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "bought:7", *kb.InlineKeyboard[1][0].CallbackData)

	// Terminal: no transition buttons, only the back row.
	gift.Status = models.GiftStatusBought
	kb = giftDetailKeyboard(gift, 200, false)
	require.Len(t, kb.InlineKeyboard, 1)
	assert.Equal(t, "gifts", *kb.InlineKeyboard[0][0].CallbackData)

	// Admins always get the delete row.
	kb = giftDetailKeyboard(gift, 200, true)
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "delete:7", *kb.InlineKeyboard[0][0].CallbackData)
}

func TestMainMenuKeyboard(t *testing.T) {
	kb := mainMenuKeyboard(false)
	assert.Len(t, kb.InlineKeyboard, 5)

	kb = mainMenuKeyboard(true)
	require.Len(t, kb.InlineKeyboard, 6)
	assert.Equal(t, "admin", *kb.InlineKeyboard[5][0].CallbackData)
}

func TestCategoryKeyboardCoversAllCategories(t *testing.T) {
	kb := categoryKeyboard()

	var datas []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			datas = append(datas, *btn.CallbackData)
		}
	}
	for _, c := range models.Categories() {
		assert.Contains(t, datas, "category:"+string(c))
	}
	assert.Contains(t, datas, "menu")
}
