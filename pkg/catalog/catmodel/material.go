package catmodel

type Material struct {
	ID               int64 `json:"id" gorm:"column:ID;primaryKey"`
	DiffuseTextureID int64 `json:"diffuse_texture_id" gorm:"column:DiffuseTextureID"`
}

func (Material) TableName() string {
	return "Material"
}
