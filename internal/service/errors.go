package service

import "errors"

// 错误分类。调用方用 errors.Is 区分处理策略：
// 校验类错误立即失败不重试；写盘失败时会话停在原行，可重试。
var (
	// ErrSchema 输入表缺少必需列，启动阶段致命
	ErrSchema = errors.New("输入表结构不符合要求")
	// ErrIO 文件读写失败；启动读取致命，提交写入可在原行重试
	ErrIO = errors.New("文件读写失败")
	// ErrConsistency 输出文件与输入不一致（如输出行数超过输入），需人工处理
	ErrConsistency = errors.New("输出文件与输入不一致")
	// ErrInvalidState 会话状态不允许该操作，属于调用方契约违反
	ErrInvalidState = errors.New("会话状态不允许该操作")
)
