package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldUID 用户 ID 字段
	FieldUID = "uid"

	// FieldNoteID 笔记 ID 字段
	FieldNoteID = "noteId"

	// FieldVersion 笔记版本字段
	FieldVersion = "version"

	// FieldAttachmentID 附件 ID 字段
	FieldAttachmentID = "attachmentId"

	// FieldCacheKey 缓存键字段
	FieldCacheKey = "cacheKey"

	// FieldPath 文件路径字段
	FieldPath = "path"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldSize 文件大小字段
	FieldSize = "size"
)
