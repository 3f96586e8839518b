package models

// NotAvailable 缺失字段的占位值
const NotAvailable = "N/A"

// CSVHeader 输出文件表头 (列顺序固定)
var CSVHeader = []string{"Title", "Price", "Link", "Time", "Location"}

// AdRecord 单条广告记录
type AdRecord struct {
	Title    string `json:"title"`
	Price    string `json:"price"`
	Link     string `json:"link"` // 绝对URL
	Time     string `json:"time"`
	Location string `json:"location"`
}

// Row 按CSVHeader顺序返回字段
func (r AdRecord) Row() []string {
	return []string{r.Title, r.Price, r.Link, r.Time, r.Location}
}

// Writable 标题和链接都非空才允许写出
func (r AdRecord) Writable() bool {
	return r.Title != "" && r.Link != ""
}

// SkipReason 广告被跳过的原因
type SkipReason string

const (
	SkipNone          SkipReason = ""               // 未跳过
	SkipPromoted      SkipReason = "promoted"       // 推广/置顶广告
	SkipExtractFailed SkipReason = "extract_failed" // 提取过程出错
	SkipMissingFields SkipReason = "missing_fields" // 标题或链接为空
)

// AdResult 单条广告的处理结果
// 成功时Record有效且Skip为空; 否则Skip说明原因, Err携带提取错误(如有)
type AdResult struct {
	Record AdRecord
	Skip   SkipReason
	Err    error
}

// OK 是否可以写出
func (r AdResult) OK() bool {
	return r.Skip == SkipNone && r.Err == nil
}
