package hotel

import "errors"

var (
	ErrHotelNotFound    = errors.New("hotel not found")
	ErrRoomTypeNotFound = errors.New("room type not found")
	ErrBadRoomType      = errors.New("invalid room type configuration")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrHotelNotFound) || errors.Is(err, ErrRoomTypeNotFound)
}
