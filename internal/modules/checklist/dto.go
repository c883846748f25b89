package checklist

type CreateItemRequest struct {
	Description string `json:"item_description" binding:"required"`
	SortOrder   *int   `json:"sort_order" binding:"required"`
}

type PatchItemRequest struct {
	Description *string `json:"item_description"`
	SortOrder   *int    `json:"sort_order"`
}

func (r CreateItemRequest) patch() PatchItemRequest {
	return PatchItemRequest{Description: &r.Description, SortOrder: r.SortOrder}
}

type ItemOrderRequest struct {
	ItemID    int64 `json:"item_id" binding:"required"`
	SortOrder *int  `json:"sort_order" binding:"required"`
}

type ReorderRequest struct {
	ItemOrders []ItemOrderRequest `json:"item_orders" binding:"dive"`
}
