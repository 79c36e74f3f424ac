package mongo

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/warp/pos-engine/auth"
	"github.com/warp/pos-engine/catalog"
	"github.com/warp/pos-engine/pos"
)

type lineItemDoc struct {
	MenuItemID string `bson:"menu_item_id"`
	Name       string `bson:"name"`
	Price      string `bson:"price"`
	Quantity   int    `bson:"quantity"`
}

type transactionDoc struct {
	OID           primitive.ObjectID `bson:"_id,omitempty"`
	ID            string             `bson:"id"`
	Items         []lineItemDoc      `bson:"items"`
	Total         string             `bson:"total_amount"`
	PaymentMethod string             `bson:"payment_method"`
	CashReceived  string             `bson:"cash_received"`
	Change        string             `bson:"change_amount"`
	OperatorID    string             `bson:"cashier_id"`
	OperatorName  string             `bson:"cashier_name"`
	Status        string             `bson:"status"`
	CreatedAt     time.Time          `bson:"created_at"`
	CreatedAtNS   int64              `bson:"created_at_ns"`
}

type userDoc struct {
	ID           string    `bson:"id"`
	Username     string    `bson:"username"`
	Name         string    `bson:"name"`
	Role         string    `bson:"role"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

type itemDoc struct {
	OID         primitive.ObjectID `bson:"_id,omitempty"`
	ID          string             `bson:"id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       string             `bson:"price"`
	Category    string             `bson:"category"`
	ImageURL    string             `bson:"image_url"`
	Available   bool               `bson:"available"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func encodeTransaction(tx pos.Transaction) transactionDoc {
	items := make([]lineItemDoc, len(tx.Items))
	for i, li := range tx.Items {
		items[i] = lineItemDoc{
			MenuItemID: li.MenuItemID,
			Name:       li.Name,
			Price:      li.Price.Decimal().String(),
			Quantity:   li.Quantity,
		}
	}
	return transactionDoc{
		OID:           primitive.NewObjectID(),
		ID:            string(tx.ID),
		Items:         items,
		Total:         tx.Total.Decimal().String(),
		PaymentMethod: string(tx.PaymentMethod),
		CashReceived:  tx.CashReceived.Decimal().String(),
		Change:        tx.Change.Decimal().String(),
		OperatorID:    tx.OperatorID,
		OperatorName:  tx.OperatorName,
		Status:        string(tx.Status),
		CreatedAt:     tx.CreatedAt.UTC(),
		CreatedAtNS:   tx.CreatedAt.UnixNano(),
	}
}

func decodeTransaction(d transactionDoc) (pos.Transaction, error) {
	tx := pos.Transaction{
		ID:            pos.TransactionID(d.ID),
		PaymentMethod: pos.PaymentMethod(d.PaymentMethod),
		OperatorID:    d.OperatorID,
		OperatorName:  d.OperatorName,
		Status:        pos.Status(d.Status),
		CreatedAt:     time.Unix(0, d.CreatedAtNS).UTC(),
	}

	var err error
	if tx.Total, err = pos.ParseMoney(d.Total); err != nil {
		return tx, fmt.Errorf("transaction %s: bad total: %w", d.ID, err)
	}
	if tx.CashReceived, err = pos.ParseMoney(d.CashReceived); err != nil {
		return tx, fmt.Errorf("transaction %s: bad cash_received: %w", d.ID, err)
	}
	if tx.Change, err = pos.ParseMoney(d.Change); err != nil {
		return tx, fmt.Errorf("transaction %s: bad change: %w", d.ID, err)
	}

	tx.Items = make([]pos.LineItem, len(d.Items))
	for i, li := range d.Items {
		price, err := pos.ParseMoney(li.Price)
		if err != nil {
			return tx, fmt.Errorf("transaction %s: bad price: %w", d.ID, err)
		}
		tx.Items[i] = pos.LineItem{MenuItemID: li.MenuItemID, Name: li.Name, Price: price, Quantity: li.Quantity}
	}
	return tx, nil
}

func encodeUser(u auth.User) userDoc {
	return userDoc{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		Role:         string(u.Role),
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt.UTC(),
	}
}

func decodeUser(d userDoc) auth.User {
	return auth.User{
		ID:           d.ID,
		Username:     d.Username,
		Name:         d.Name,
		Role:         pos.Role(d.Role),
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

func encodeItem(item catalog.Item) itemDoc {
	return itemDoc{
		OID:         primitive.NewObjectID(),
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price.Decimal().String(),
		Category:    item.Category,
		ImageURL:    item.ImageURL,
		Available:   item.Available,
		CreatedAt:   item.CreatedAt.UTC(),
	}
}

func decodeItem(d itemDoc) (catalog.Item, error) {
	price, err := pos.ParseMoney(d.Price)
	if err != nil {
		return catalog.Item{}, fmt.Errorf("menu item %s: bad price: %w", d.ID, err)
	}
	return catalog.Item{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		Category:    d.Category,
		ImageURL:    d.ImageURL,
		Available:   d.Available,
		CreatedAt:   d.CreatedAt.UTC(),
	}, nil
}
