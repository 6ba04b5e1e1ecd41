package service_test

import (
	"context"
	"fmt"
	"testing"

	"ebucks/internal/dto"
	"ebucks/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransfer_MovesAmountAndBurnsFee(t *testing.T) {
	f := newFixture()
	alice := f.users.add("ALICE", "1111", "15")
	bob := f.users.add("BOB", "2222", "15")
	f.vouchers.seed("OLD00020", "20.00", &alice.ID)
	f.vouchers.seed("NEW00020", "20.00", &alice.ID)

	resp, err := f.transfer.Transfer(context.Background(), dto.TransferRequest{
		SenderID: alice.ID.String(), ReceiverID: bob.ID.String(), Amount: dec("10.00"),
	})
	require.NoError(t, err)

	assert.True(t, resp.Fee.Equal(dec("5")))
	assert.True(t, resp.Change.Equal(dec("5.00")))
	assert.True(t, f.vouchers.balance(alice.ID).Equal(dec("25.00")), "40 - (10 + 5)")
	assert.True(t, f.vouchers.balance(bob.ID).Equal(dec("10.00")))

	// oldest voucher is spent first and the newer one is untouched
	assert.True(t, f.vouchers.get("OLD00020").IsUsed)
	assert.False(t, f.vouchers.get("NEW00020").IsUsed)

	require.Len(t, f.jobs.prints, 1)
	assert.Len(t, f.jobs.prints[0].Vouchers, 2)
	assert.Contains(t, resp.Printable, "Owner: BOB")
}

func TestTransfer_ExactBalance(t *testing.T) {
	f := newFixture()
	alice := f.users.add("ALICE", "1111", "15")
	bob := f.users.add("BOB", "2222", "15")
	f.vouchers.seed("AAAA0015", "15.00", &alice.ID)

	resp, err := f.transfer.Transfer(context.Background(), dto.TransferRequest{
		SenderID: alice.ID.String(), ReceiverID: bob.ID.String(), Amount: dec("10.00"),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.ChangeID)
	assert.True(t, f.vouchers.balance(alice.ID).IsZero())
}

func TestTransfer_InsufficientBalanceIncludesFee(t *testing.T) {
	f := newFixture()
	alice := f.users.add("ALICE", "1111", "15")
	bob := f.users.add("BOB", "2222", "15")
	f.vouchers.seed("AAAA0012", "12.00", &alice.ID)

	_, err := f.transfer.Transfer(context.Background(), dto.TransferRequest{
		SenderID: alice.ID.String(), ReceiverID: bob.ID.String(), Amount: dec("10.00"),
	})
	assert.ErrorIs(t, err, service.ErrInsufficientFunds)
	assert.True(t, f.vouchers.balance(alice.ID).Equal(dec("12.00")))
	assert.True(t, f.vouchers.balance(bob.ID).IsZero())
}

func TestTransfer_Rejections(t *testing.T) {
	f := newFixture()
	alice := f.users.add("ALICE", "1111", "15")
	f.vouchers.seed("AAAA0050", "50.00", &alice.ID)

	_, err := f.transfer.Transfer(context.Background(), dto.TransferRequest{
		SenderID: alice.ID.String(), ReceiverID: alice.ID.String(), Amount: dec("1.00"),
	})
	assert.ErrorIs(t, err, service.ErrSelfTransfer)

	_, err = f.transfer.Transfer(context.Background(), dto.TransferRequest{
		SenderID: alice.ID.String(), ReceiverID: uuid.NewString(), Amount: dec("1.00"),
	})
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = f.transfer.Transfer(context.Background(), dto.TransferRequest{
		SenderID: alice.ID.String(), ReceiverID: uuid.NewString(), Amount: dec("0"),
	})
	assert.ErrorIs(t, err, service.ErrInvalidAmount)

	assert.True(t, f.vouchers.balance(alice.ID).Equal(dec("50.00")))
}

func TestTransfer_Scenarios(t *testing.T) {
	tests := []struct {
		name          string
		vouchers      []string
		amount        string
		wantChange    string
		wantSenderBal string
		wantUsed      int
	}{
		{"twenty then ten covers eighteen", []string{"20.00", "10.00"}, "18.00", "7.00", "7.00", 2},
		{"first voucher alone covers it", []string{"20.00", "10.00"}, "10.00", "5.00", "15.00", 1},
		{"exact fit leaves no change", []string{"8.00", "10.00"}, "13.00", "0", "0", 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			alice := f.users.add("ALICE", "1111", "15")
			bob := f.users.add("BOB", "2222", "15")
			ids := make([]string, len(tc.vouchers))
			for i, amt := range tc.vouchers {
				ids[i] = fmt.Sprintf("SEND%04d", i)
				f.vouchers.seed(ids[i], amt, &alice.ID)
			}

			resp, err := f.transfer.Transfer(context.Background(), dto.TransferRequest{
				SenderID: alice.ID.String(), ReceiverID: bob.ID.String(), Amount: dec(tc.amount),
			})
			require.NoError(t, err)

			assert.True(t, resp.Change.Equal(dec(tc.wantChange)), "change %s", resp.Change)
			assert.Equal(t, resp.Change.IsPositive(), resp.ChangeID != nil)
			assert.True(t, f.vouchers.balance(alice.ID).Equal(dec(tc.wantSenderBal)))
			assert.True(t, f.vouchers.balance(bob.ID).Equal(dec(tc.amount)))
			assert.True(t, f.vouchers.get(resp.VoucherID).Amount.Equal(dec(tc.amount)))

			used := 0
			for _, id := range ids {
				if f.vouchers.get(id).IsUsed {
					used++
				}
			}
			assert.Equal(t, tc.wantUsed, used)
		})
	}
}
