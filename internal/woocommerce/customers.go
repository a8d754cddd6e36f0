package woocommerce

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

func (c *Client) getCustomer(ctx context.Context, customerID int64) (customerDTO, error) {
	var dto customerDTO
	if err := c.get(ctx, "customers/"+strconv.FormatInt(customerID, 10), nil, &dto); err != nil {
		return customerDTO{}, fmt.Errorf("get customer[%d]: %w", customerID, err)
	}
	return dto, nil
}

func (c *Client) updateCustomerMeta(ctx context.Context, customerID int64, meta []metaData) error {
	in := customerUpdateDTO{MetaData: meta}
	if err := c.do(ctx, http.MethodPut, "customers/"+strconv.FormatInt(customerID, 10), nil, in, nil); err != nil {
		return fmt.Errorf("update customer[%d]: %w", customerID, err)
	}
	return nil
}

func parseCustomerID(ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, fmt.Errorf("ownerID is empty")
	}

	id, err := strconv.ParseInt(ownerID, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("ownerID[%s] is not a customer id", ownerID)
	}

	return id, nil
}
