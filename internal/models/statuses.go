package models

// TableStatus is always derived from the table's reservations and orders;
// it is never stored in the database.
type TableStatus string

const (
	TableAvailable    TableStatus = "available"
	TableReserved     TableStatus = "reserved"
	TableOccupied     TableStatus = "occupied"
	TableOutOfService TableStatus = "out_of_service"
)

type TableLocation string

const (
	LocationWindow   TableLocation = "window"
	LocationBar      TableLocation = "bar"
	LocationMainHall TableLocation = "main_hall"
	LocationTerrace  TableLocation = "terrace"
	LocationVIPRoom  TableLocation = "vip_room"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCheckedIn ReservationStatus = "checked_in"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationNoShow    ReservationStatus = "no_show"
)

// OrderStatus is shared by orders and their line items. Paid only ever
// appears on a whole order, never on a single item.
type OrderStatus string

const (
	OrderNew        OrderStatus = "new"
	OrderInProgress OrderStatus = "in_progress"
	OrderReady      OrderStatus = "ready"
	OrderServed     OrderStatus = "served"
	OrderPaid       OrderStatus = "paid"
	OrderCancelled  OrderStatus = "cancelled"
)

type DishCategory string

const (
	CategoryAppetizer  DishCategory = "appetizer"
	CategorySoup       DishCategory = "soup"
	CategorySalad      DishCategory = "salad"
	CategoryMainCourse DishCategory = "main_course"
	CategorySideDish   DishCategory = "side_dish"
	CategoryDessert    DishCategory = "dessert"
	CategoryBeverage   DishCategory = "beverage"
	CategoryAlcohol    DishCategory = "alcohol"
)
