package util

const DateFormat = "2006-01-02"

// 作业截止时间可接受的格式，依次尝试
var DueDateFormats = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05Z07:00",
}

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MimeImage       = "image/"
	MimeText        = "text/"
	MimePDF         = "application/pdf"
	MimeZip         = "application/zip"
	MimeOctetStream = "application/octet-stream"
)

// 作业文档允许的类型，docx 等 Office 文件会被识别为 zip
var AllowedDocumentTypes = []string{MimePDF, MimeZip, MimeText, MimeImage, MimeOctetStream}

// 分页
const (
	DefaultPerPage = 12
	MaxPerPage     = 100
)

// 首页列表数量
const (
	LatestUnitsLimit      = 6
	PopularUnitsLimit     = 6
	RecommendedUnitsLimit = 3
	FeaturedTeachersLimit = 3
	RelatedUnitsLimit     = 4
	RecentActivityLimit   = 5
	ActivityDays          = 5
	InProgressThreshold   = 30
)

const MinPasswordLength = 6
