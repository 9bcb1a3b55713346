package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusOrderReceived    OrderStatus = "ORDER_RECEIVED"
	StatusPaymentConfirmed OrderStatus = "PAYMENT_CONFIRMED"
	StatusPreparing        OrderStatus = "PREPARING"
	StatusReadyForPickup   OrderStatus = "READY_FOR_PICKUP"
	StatusPickedUp         OrderStatus = "PICKED_UP"
	StatusCompleted        OrderStatus = "COMPLETED"
	StatusCancelled        OrderStatus = "CANCELLED"
	StatusRefunded         OrderStatus = "REFUNDED"
)

// OrderStatuses is the full set of valid status values.
var OrderStatuses = []OrderStatus{
	StatusOrderReceived,
	StatusPaymentConfirmed,
	StatusPreparing,
	StatusReadyForPickup,
	StatusPickedUp,
	StatusCompleted,
	StatusCancelled,
	StatusRefunded,
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentUnpaid  PaymentStatus = "UNPAID"
	PaymentPaid    PaymentStatus = "PAID"
)

// PaymentMethodCOD marks cash-on-delivery orders; they start as PENDING
// instead of UNPAID.
const PaymentMethodCOD = "COD"

// OrderItem snapshots the unit price at placement time so later catalog
// price changes do not alter the order.
type OrderItem struct {
	BookID   primitive.ObjectID `bson:"bookId" json:"bookId"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
}

// StatusRecord is one entry of the order's audit trail.
type StatusRecord struct {
	Status    OrderStatus        `bson:"status" json:"status"`
	ChangedAt time.Time          `bson:"changedAt" json:"changedAt"`
	ChangedBy primitive.ObjectID `bson:"changedBy" json:"changedBy"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	ShippingAddress string             `bson:"shippingAddress" json:"shippingAddress"`
	ShippingFee     float64            `bson:"shippingFee" json:"shippingFee"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	TotalAmount     float64            `bson:"totalAmount" json:"totalAmount"`
	Status          OrderStatus        `bson:"status" json:"status"`
	Payment         PaymentStatus      `bson:"payment" json:"payment"`
	StatusHistory   []StatusRecord     `bson:"statusHistory" json:"statusHistory"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
