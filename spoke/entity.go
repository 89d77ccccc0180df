package spoke

import (
	"strconv"
)

type EntityId uint32

const NoEntityId = EntityId(0)

func (e EntityId) String() string {
	return strconv.Itoa(int(e))
}
