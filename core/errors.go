package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 构建/查询链路上的领域错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - 构建错误：DATA_INVALID（输入表缺列/为空，构建整体中止）
//   - 查询错误：ARTIFACT_MISSING（未 Build 先 Recommend）
//   - 参数错误：INVALID_CONFIG（top_k / λ / weights 非法）
//   - 存储错误：NOT_FOUND / NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "DATA_INVALID", "ARTIFACT_MISSING"）
	Message string // 错误消息
	Module  string // 模块名称（如 "engine", "store", "genome"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeDataInvalid     = "DATA_INVALID"     // 输入表缺少必需列或为空
	ErrorCodeArtifactMissing = "ARTIFACT_MISSING" // 构建产物缺失（先 Build 再查询）
	ErrorCodeInvalidConfig   = "INVALID_CONFIG"   // 请求参数/配置非法
	ErrorCodeNotFound        = "NOT_FOUND"        // 资源不存在
	ErrorCodeNotSupported    = "NOT_SUPPORTED"    // 操作不支持
	ErrorCodeInternalError   = "INTERNAL_ERROR"   // 内部错误
)

// 模块名称常量
const (
	ModuleEngine = "engine" // 构建/查询编排
	ModuleStore  = "store"  // 存储模块
	ModuleGenome = "genome" // 内容基因模块
	ModuleCollab = "collab" // 协同信号模块
	ModuleFilter = "filter" // 候选过滤模块
)

// IsDataInvalid 检查错误是否为输入数据校验失败
func IsDataInvalid(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeDataInvalid
	}
	return false
}

// IsArtifactMissing 检查错误是否为构建产物缺失
func IsArtifactMissing(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeArtifactMissing
	}
	return false
}

// IsInvalidConfig 检查错误是否为参数非法
func IsInvalidConfig(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidConfig
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
