package catmodel

type Buffer struct {
	ID           int64 `json:"id" gorm:"column:ID;primaryKey"`
	ByteSize     int64 `json:"byte_size" gorm:"column:ByteSize"`
	ByteOffset   int64 `json:"byte_offset" gorm:"column:ByteOffset"`
	PackedDataID int64 `json:"packed_data_id" gorm:"column:PackedDataID"`
}

func (Buffer) TableName() string {
	return "Buffer"
}

// VertexAttribute tags what a BufferView carries. Values are stored as
// integers in BufferView.Attribute so their order must not change.
type VertexAttribute int

const (
	AttributeUnknown VertexAttribute = iota
	AttributeIndex
	AttributePosition
	AttributeNormal
	AttributeTangent
	AttributeTexCoord
	AttributeColor
	AttributeJoints
	AttributeWeights
)

// BufferView is a sub-range of a Buffer. ByteOffset is relative to the start
// of the Buffer's bytes, not to the blob file.
type BufferView struct {
	ID         int64           `json:"id" gorm:"column:ID;primaryKey"`
	ByteSize   int64           `json:"byte_size" gorm:"column:ByteSize"`
	ByteOffset int64           `json:"byte_offset" gorm:"column:ByteOffset"`
	Attribute  VertexAttribute `json:"attribute" gorm:"column:Attribute"`
	BufferID   int64           `json:"buffer_id" gorm:"column:BufferID"`
}

func (BufferView) TableName() string {
	return "BufferView"
}
