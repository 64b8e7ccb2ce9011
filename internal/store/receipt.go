package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/vending-backend/internal/models"
)

type receiptStore struct {
	Client     *firestore.Client
	Collection *firestore.CollectionRef
}

func NewReceiptStore(client *firestore.Client) *receiptStore {
	return &receiptStore{
		Client:     client,
		Collection: client.Collection("receipts"),
	}
}

// SaveReceipt is keyed by receipt id, so replays of the same settled
// transaction overwrite instead of duplicating.
func (rs *receiptStore) SaveReceipt(ctx context.Context, receipt *models.Receipt) error {
	_, err := rs.Collection.Doc(receipt.ID).Set(ctx, receipt)
	return err
}

func (rs *receiptStore) ListReceipts(ctx context.Context, limit int) ([]models.Receipt, error) {
	iter := rs.Collection.OrderBy("createdAt", firestore.Desc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	receipts := make([]models.Receipt, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var r models.Receipt
		if err := doc.DataTo(&r); err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}
	return receipts, nil
}
