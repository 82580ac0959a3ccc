package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/muhammedanshif/rentEase/config"
	"github.com/muhammedanshif/rentEase/db/models"
	"github.com/muhammedanshif/rentEase/utils"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type MidtransGateway struct {
	serverKey   string
	snapClient  snap.Client
	coreClient  coreapi.Client
	rateLimiter *rate.Limiter
}

func NewMidtransGateway(serverKey string, production bool) *MidtransGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}

	g := &MidtransGateway{
		serverKey:   serverKey,
		rateLimiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	}
	g.snapClient.New(serverKey, env)
	g.coreClient.New(serverKey, env)
	return g
}

func (g *MidtransGateway) IsMock() bool { return false }

func (g *MidtransGateway) CreateOrder(ctx context.Context, bill *models.Bill, customer Customer) (*Order, error) {
	if err := g.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	orderID := fmt.Sprintf("RENT-%s-%d", strings.ToUpper(bill.ID.String()[:8]), time.Now().Unix())
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: bill.Amount.Round(0).IntPart(),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: customer.Name,
			Email: customer.Email,
			Phone: customer.Phone,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    bill.ID.String(),
			Name:  fmt.Sprintf("%s %s", string(bill.BillType), bill.BillingMonth),
			Price: bill.Amount.Round(0).IntPart(),
			Qty:   1,
		}},
	}

	resp, mErr := g.snapClient.CreateTransaction(req)
	if mErr != nil {
		config.Logger.Error("Midtrans order creation failed",
			zap.String("order_id", orderID),
			zap.String("error", mErr.GetMessage()))
		return nil, utils.InternalError("Payment gateway rejected the order", mErr)
	}

	return &Order{
		OrderID:     orderID,
		Amount:      bill.Amount,
		Currency:    Currency,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}

// VerifyPayment asks the gateway for the order's status rather than trusting the client.
func (g *MidtransGateway) VerifyPayment(ctx context.Context, orderID, transactionID string) (*Verification, error) {
	if err := g.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	status, mErr := g.coreClient.CheckTransaction(orderID)
	if mErr != nil {
		config.Logger.Warn("Midtrans status check failed",
			zap.String("order_id", orderID),
			zap.String("error", mErr.GetMessage()))
		return nil, utils.ValidationError("Payment verification failed")
	}

	gross, err := decimal.NewFromString(status.GrossAmount)
	if err != nil {
		config.Logger.Warn("Midtrans returned an unreadable amount",
			zap.String("order_id", orderID),
			zap.String("gross_amount", status.GrossAmount))
		return nil, utils.ValidationError("Payment verification failed")
	}
	v := &Verification{
		OrderID:       status.OrderID,
		TransactionID: status.TransactionID,
		GrossAmount:   gross,
		Status:        status.TransactionStatus,
	}
	if transactionID != "" && status.TransactionID != transactionID {
		v.Status = "mismatch"
		return v, nil
	}
	v.Paid = isSettled(status.TransactionStatus, status.FraudStatus)
	return v, nil
}

func (g *MidtransGateway) VerifyNotification(n Notification) bool {
	if n.SignatureKey == "" {
		return false
	}
	return strings.EqualFold(n.SignatureKey, NotificationSignature(n, g.serverKey))
}

// NewGateway picks midtrans when a server key is configured and the mock otherwise.
func NewGateway(serverKey string, production bool) Gateway {
	if serverKey == "" {
		config.Logger.Warn("MIDTRANS_SERVER_KEY not set, payment gateway runs in mock mode")
		return NewMockGateway()
	}
	return NewMidtransGateway(serverKey, production)
}
