package api

import "strings"

// Role identifies the privilege level of a staff account.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleWorker Role = "WORKER"
)

// Profile is the immutable account snapshot returned by the backend. It is
// replaced wholesale on refetch, never partially mutated by the client.
type Profile struct {
	Username    string       `json:"username"`
	FullName    string       `json:"fullName"`
	Role        Role         `json:"role"`
	PickUpPoint *PickupPoint `json:"pickUpPoint"`
}

// PickupPoint is a physical pickup location.
type PickupPoint struct {
	PickupPointID int    `json:"pickupPointId"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	ContactPhone  string `json:"contactPhone"`
	WorkingHours  string `json:"workingHours"`
	IsActive      bool   `json:"isActive"`
}

// Author is a catalog author entry.
type Author struct {
	AuthorID int    `json:"authorId"`
	FullName string `json:"fullName"`
}

// Category is a catalog category entry.
type Category struct {
	CategoryID int    `json:"categoryId"`
	Name       string `json:"name"`
}

// Genre is a catalog genre entry.
type Genre struct {
	GenreID int    `json:"genreId"`
	Name    string `json:"name"`
}

// CategoryWithGenres groups the genres attached to one category.
type CategoryWithGenres struct {
	CategoryID   int     `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Genres       []Genre `json:"genres"`
}

// ReferenceData is the aggregate lookup payload fetched once per session.
type ReferenceData struct {
	Authors       []Author             `json:"authors"`
	AllCategories []Category           `json:"allCategories"`
	AllGenres     []Genre              `json:"allGenres"`
	Tree          []CategoryWithGenres `json:"tree"`
	PickUpPoints  []PickupPoint        `json:"pickUpPoints"`
	OrderStatuses []string             `json:"orderStatuses"`
	ItemStatuses  []string             `json:"itemStatuses"`
}

// Book is a catalog entry as the admin list endpoint returns it.
type Book struct {
	BookID          int      `json:"bookId"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	AuthorID        int      `json:"authorId"`
	PurchasePrice   float64  `json:"purchasePrice"`
	RentalPrice     float64  `json:"rentalPrice"`
	DiscountPercent float64  `json:"discountPercent"`
	StockQuantity   int      `json:"stockQuantity"`
	Status          string   `json:"status"`
	PublicationDate string   `json:"publicationDate"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
	CategoryIDs     []int    `json:"categoryIds"`
	GenreIDs        []int    `json:"genreIds"`
	ImageURLs       []string `json:"imageUrls"`
}

// BookUpdate is the payload for a book create or edit.
type BookUpdate struct {
	Title           string   `json:"title" validate:"required"`
	Description     string   `json:"description,omitempty"`
	AuthorID        int      `json:"authorId" validate:"required,gt=0"`
	PurchasePrice   float64  `json:"purchasePrice" validate:"gte=0"`
	RentalPrice     float64  `json:"rentalPrice" validate:"gte=0"`
	DiscountPercent float64  `json:"discountPercent" validate:"gte=0,lte=100"`
	StockQuantity   int      `json:"stockQuantity" validate:"gte=0"`
	Status          string   `json:"status,omitempty"`
	PublicationDate string   `json:"publicationDate" validate:"required"`
	CategoryIDs     []int    `json:"categoryIds"`
	GenreIDs        []int    `json:"genreIds"`
	ImageURLs       []string `json:"imageUrls,omitempty"`
}

// BookPage is the paginated books response.
type BookPage struct {
	Books         []Book `json:"books"`
	CurrentPage   int    `json:"currentPage"`
	TotalPages    int    `json:"totalPages"`
	TotalElements int    `json:"totalElements"`
}

// BookQuery configures the admin books list request.
type BookQuery struct {
	SearchQuery string
	SortBy      string
	SortOrder   string
	Page        int
	Size        int
}

/// Order lifecycle statuses. The CANCELLED-prefixed family is terminal: once
// an order is in it, no further status or item-status change is allowed.
const (
	OrderCreated              = "CREATED"
	OrderPaid                 = "PAID"
	OrderReadyForPickup       = "READY_FOR_PICKUP"
	OrderReadyForPickupUnpaid = "READY_FOR_PICKUP_UNPAID"
	OrderDelivered            = "DELIVERED"
	OrderReturned             = "RETURNED"
	OrderCancelled            = "CANCELLED"
)

// Item statuses.
const (
	ItemPending   = "PENDING"
	ItemDelivered = "DELIVERED"
	ItemRented    = "RENTED"
	ItemOverdue   = "OVERDUE"
	ItemCancelled = "CANCELLED"
)

// IsTerminalStatus reports whether status belongs to the cancelled family
// (CANCELLED, CANCELLED_PAID, CANCELLED_BY_USER_*, CANCELLED_BY_DEADLINE_*).
func IsTerminalStatus(status string) bool {
	return strings.HasPrefix(status, OrderCancelled)
}

// OrderSummary is one row of the admin orders list.
type OrderSummary struct {
	OrderID     int     `json:"orderId"`
	UserID      int     `json:"userId"`
	Email       string  `json:"email"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
	PaidAt      string  `json:"paidAt"`
	DeliveredAt string  `json:"deliveredAt"`
	PickUpPoint string  `json:"pickUpPoint"`
	TotalPrice  float64 `json:"totalPrice"`
	ItemCount   int     `json:"itemCount"`
}

// OrderItem is a single line of an order.
type OrderItem struct {
	OrderItemID    int    `json:"orderItemId"`
	BookID         int    `json:"bookId"`
	BookTitle      string `json:"bookTitle"`
	AuthorFullName string `json:"authorFullName"`
	ImageURL       string `json:"imageUrl"`
	Type           string `json:"type"`
	RentalDays     int    `json:"rentalDays"`
	RentalStartAt  string `json:"rentalStartAt"`
	RentalEndAt    string `json:"rentalEndAt"`
	ItemStatus     string `json:"itemStatus"`
}

// OrderDetail is the expanded view of one order.
type OrderDetail struct {
	OrderID     int          `json:"orderId"`
	Status      string       `json:"status"`
	CreatedAt   string       `json:"createdAt"`
	PaidAt      string       `json:"paidAt"`
	DeliveredAt string       `json:"deliveredAt"`
	PickUpPoint *PickupPoint `json:"pickUpPoint"`
	TotalPrice  float64      `json:"totalPrice"`
	Items       []OrderItem  `json:"items"`
}

// OrderPage is the paginated orders response. The backend uses Spring page
// field names (content/number/size).
type OrderPage struct {
	Content       []OrderSummary `json:"content"`
	Number        int            `json:"number"`
	Size          int            `json:"size"`
	TotalPages    int            `json:"totalPages"`
	TotalElements int            `json:"totalElements"`
}

// OrderQuery configures the admin orders list request.
type OrderQuery struct {
	OrderID       int
	Email         string
	Status        string
	PickupPointID int
	SortDirection string
	Page          int
	Size          int
}

// Worker is a staff account row.
type Worker struct {
	AdminID       int    `json:"adminId"`
	Username      string `json:"username"`
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	PickupPointID int    `json:"pickupPointId"`
}

// WorkerCreate is the payload for creating a staff account.
type WorkerCreate struct {
	Username      string `json:"username" validate:"required,min=3"`
	Password      string `json:"password" validate:"required,min=8"`
	FullName      string `json:"fullName" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	PickupPointID int    `json:"pickupPointId" validate:"required,gt=0"`
}

// WorkerUpdate is the payload for editing a staff account. Password is
/// optional: empty means keep the current one.
type WorkerUpdate struct {
	Username      string `json:"username" validate:"required,min=3"`
	FullName      string `json:"fullName" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	PickupPointID int    `json:"pickupPointId" validate:"required,gt=0"`
	Password      string `json:"password,omitempty" validate:"omitempty,min=8"`
}

// AuthStatus is the backend's answer to a status check.
type AuthStatus struct {
	Authenticated bool `json:"authenticated"`
}
