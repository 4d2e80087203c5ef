package domain

// Reduce maps the current line items and an action to the next list. It is
// total: malformed input such as a non-positive quantity is clamped, never
// rejected. The input slice is left untouched so callers can rely on the
// returned value alone.
func Reduce(items []LineItem, action Action) []LineItem {
	switch a := action.(type) {
	case Add:
		return reduceAdd(items, a.Item)
	case Remove:
		return reduceRemove(items, a.ProductID, a.Color, a.Size)
	case SetQuantity:
		return reduceSetQuantity(items, a.ProductID, a.Color, a.Size, a.Quantity)
	case Clear:
		return []LineItem{}
	case Hydrate:
		next := make([]LineItem, len(a.Items))
		copy(next, a.Items)
		return next
	default:
		return items
	}
}

func reduceAdd(items []LineItem, item LineItem) []LineItem {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	next := make([]LineItem, len(items))
	copy(next, items)
	for i := range next {
		if next[i].SameVariant(item.ProductID, item.Color, item.Size) {
			// The display fields of the first add win; only the quantity grows.
			next[i].Quantity += item.Quantity
			return next
		}
	}
	return append(next, item)
}

func reduceRemove(items []LineItem, productID string, color, size *string) []LineItem {
	next := make([]LineItem, 0, len(items))
	for _, li := range items {
		if li.SameVariant(productID, color, size) {
			continue
		}
		next = append(next, li)
	}
	return next
}

func reduceSetQuantity(items []LineItem, productID string, color, size *string, quantity int) []LineItem {
	if quantity < 1 {
		quantity = 1
	}
	next := make([]LineItem, len(items))
	copy(next, items)
	for i := range next {
		if next[i].SameVariant(productID, color, size) {
			next[i].Quantity = quantity
		}
	}
	return next
}
