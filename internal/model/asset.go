package model

type AssetType string

const (
	AssetVideo      AssetType = "video"
	AssetAttachment AssetType = "attachment"
	AssetImage      AssetType = "image"
)

// LessonAsset 课时配套的媒体资源（讲解视频、附件等），由教师上传
// swagger:model LessonAsset
type LessonAsset struct {
	BaseModel
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Type        AssetType `gorm:"type:enum('video','attachment','image');not null" json:"type"`
	LessonSlug  string    `gorm:"size:100;index" json:"lessonSlug"`
	URL         string    `gorm:"size:255;not null" json:"url"`
	UploaderID  uint      `gorm:"index;type:bigint unsigned" json:"uploaderId"`
	Duration    float64   `gorm:"column:duration;default:0" json:"duration"` // 视频时长（秒）
	Size        int64     `gorm:"column:size;default:0" json:"size"`         // 文件大小（字节）
	Format      string    `gorm:"size:50" json:"format"`
	Thumbnail   string    `gorm:"size:255" json:"thumbnail"`
}

func (LessonAsset) TableName() string {
	return "lesson_assets"
}
