package blackjack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(chips int) *Account {
	a, _ := NewHumanAccount("Ana", chips, nil)
	return a
}

func TestPlaceBet(t *testing.T) {
	testCases := []struct {
		name    string
		amount  int
		wantErr bool
	}{
		{name: "valid", amount: 20},
		{name: "all in", amount: 100},
		{name: "zero", amount: 0, wantErr: true},
		{name: "negative", amount: -5, wantErr: true},
		{name: "more than chips", amount: 101, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAccount(100)
			err := PlaceBet(a, tc.amount)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBet)
				assert.Equal(t, 100, a.Chips, "rejected bet must not move chips")
				assert.Equal(t, 0, a.CurrentBet)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 100-tc.amount, a.Chips)
			assert.Equal(t, tc.amount, a.CurrentBet)
		})
	}
}

func TestPayoutExactness(t *testing.T) {
	testCases := []struct {
		name     string
		settle   func(a *Account)
		expected int
	}{
		{name: "blackjack", settle: func(a *Account) { SettleWin(a, true) }, expected: 130},
		{name: "win", settle: func(a *Account) { SettleWin(a, false) }, expected: 120},
		{name: "push", settle: func(a *Account) { SettlePush(a) }, expected: 100},
		{name: "loss", settle: SettleLoss, expected: 80},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestAccount(100)
			require.NoError(t, PlaceBet(a, 20))
			tc.settle(a)
			assert.Equal(t, tc.expected, a.Chips)
			assert.Equal(t, 0, a.CurrentBet)
		})
	}
}

func TestBlackjackPayoutRoundsDown(t *testing.T) {
	a := newTestAccount(100)
	require.NoError(t, PlaceBet(a, 15))

	credit := SettleWin(a, true)

	assert.Equal(t, 37, credit)
	assert.Equal(t, 122, a.Chips)
}

func TestDoubleDown(t *testing.T) {
	a := newTestAccount(100)
	require.NoError(t, PlaceBet(a, 30))

	require.NoError(t, DoubleDown(a))
	assert.Equal(t, 40, a.Chips)
	assert.Equal(t, 60, a.CurrentBet)
	assert.True(t, a.DoubledDown)
}

func TestDoubleDownInsufficientChips(t *testing.T) {
	a := newTestAccount(100)
	require.NoError(t, PlaceBet(a, 60))

	err := DoubleDown(a)

	assert.ErrorIs(t, err, ErrInsufficientChipsForDouble)
	assert.Equal(t, 40, a.Chips)
	assert.Equal(t, 60, a.CurrentBet)
	assert.False(t, a.DoubledDown)
}

func TestInsurance(t *testing.T) {
	t.Run("dealer natural pays three times the stake", func(t *testing.T) {
		a := newTestAccount(100)
		require.NoError(t, PlaceBet(a, 20))
		require.True(t, CanTakeInsurance(a))
		assert.Equal(t, 10, InsuranceCost(a))

		require.NoError(t, TakeInsurance(a))
		assert.Equal(t, 70, a.Chips)
		assert.Equal(t, 10, a.InsuranceStake)

		assert.Equal(t, 30, SettleInsurance(a, true))
		assert.Equal(t, 100, a.Chips)
		assert.Equal(t, 0, a.InsuranceStake)
	})

	t.Run("no dealer natural forfeits the stake", func(t *testing.T) {
		a := newTestAccount(100)
		require.NoError(t, PlaceBet(a, 20))
		baseline := a.Chips
		require.NoError(t, TakeInsurance(a))

		assert.Equal(t, 0, SettleInsurance(a, false))
		assert.Equal(t, baseline-10, a.Chips)
		assert.Equal(t, 0, a.InsuranceStake)
	})

	t.Run("nothing to insure on a one chip bet", func(t *testing.T) {
		a := newTestAccount(100)
		require.NoError(t, PlaceBet(a, 1))
		assert.False(t, CanTakeInsurance(a))
		assert.ErrorIs(t, TakeInsurance(a), ErrInsuranceUnavailable)
	})

	t.Run("unaffordable", func(t *testing.T) {
		a := newTestAccount(100)
		require.NoError(t, PlaceBet(a, 96))
		assert.False(t, CanTakeInsurance(a))
		assert.Equal(t, 4, a.Chips)
	})
}

func TestRefund(t *testing.T) {
	a := newTestAccount(100)
	require.NoError(t, PlaceBet(a, 20))
	require.NoError(t, TakeInsurance(a))

	refund(a)

	assert.Equal(t, 100, a.Chips)
	assert.Equal(t, 0, a.CurrentBet)
	assert.Equal(t, 0, a.InsuranceStake)
}

func TestNewHumanAccount(t *testing.T) {
	_, err := NewHumanAccount("dealer", 100, nil)
	assert.ErrorIs(t, err, ErrReservedName)

	_, err = NewHumanAccount("  ", 100, nil)
	assert.Error(t, err)

	a, err := NewHumanAccount("Ana", 100, nil)
	require.NoError(t, err)
	assert.True(t, a.IsHuman())
	assert.Equal(t, 0, a.Wins)
	assert.NotNil(t, a.Badges)
}
