package access

import "errors"

var (
	// ErrForbidden возвращается, когда у вызывающего нет прав на операцию
	ErrForbidden = errors.New("access: forbidden")

	// ErrHubNotFound возвращается, когда хаб отсутствует в справочнике
	ErrHubNotFound = errors.New("access: hub not found")

	// ErrInternal возвращается при недоступности справочника хабов
	ErrInternal = errors.New("access: internal error")
)
