package catmodel

type TextureFormat int

const (
	TextureFormatRGBA8 TextureFormat = iota
	TextureFormatBC1
	TextureFormatBC2
	TextureFormatBC3
	TextureFormatBC4
	TextureFormatBC5
	TextureFormatBC7
)

var textureFormatNames = [...]string{
	TextureFormatRGBA8: "RGBA8",
	TextureFormatBC1:   "BC1",
	TextureFormatBC2:   "BC2",
	TextureFormatBC3:   "BC3",
	TextureFormatBC4:   "BC4",
	TextureFormatBC5:   "BC5",
	TextureFormatBC7:   "BC7",
}

func (f TextureFormat) String() string {
	if f < 0 || int(f) >= len(textureFormatNames) {
		return "unknown"
	}

	return textureFormatNames[f]
}

type Texture struct {
	ID           int64         `json:"id" gorm:"column:ID;primaryKey"`
	ByteSize     int64         `json:"byte_size" gorm:"column:ByteSize"`
	ByteOffset   int64         `json:"byte_offset" gorm:"column:ByteOffset"`
	Format       TextureFormat `json:"format" gorm:"column:Format"`
	PackedDataID int64         `json:"packed_data_id" gorm:"column:PackedDataID"`
}

func (Texture) TableName() string {
	return "Texture"
}
