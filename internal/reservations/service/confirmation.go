package service

import (
	"fmt"
	"hash/fnv"

	"innkeep/pkg/model"
)

// ConfirmationNumber derives a stable identifier from the booking request's
// content: the same field tuple always hashes to the same number. It is not
// a security token and the store does not enforce its uniqueness; collisions
// are tolerated.
func ConfirmationNumber(req *model.BookingRequest) int32 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%s|%d|%s|%s",
		req.GuestID,
		req.HotelID,
		req.RoomNumber,
		model.Day(req.StartDate).Format(model.DateLayout),
		model.Day(req.EndDate).Format(model.DateLayout),
	)

	n := int32(h.Sum32() & 0x7fffffff)
	if n == 0 {
		n = 1
	}
	return n
}
