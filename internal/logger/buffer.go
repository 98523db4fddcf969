package logger

import "sync"

// Record 内存缓冲区中的一条日志记录
// Level 缺失（空字符串）的记录是合法的，统计时不计入任何级别
type Record struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// DefaultBufferSize 缓冲区默认容量
const DefaultBufferSize = 500

// Buffer 有界日志环形缓冲区
// Mu 与写入方共享：读取方必须持有 Mu 遍历 Records，且只能只读遍历
type Buffer struct {
	Mu      sync.Mutex
	Records []Record

	max int
}

// NewBuffer 创建指定容量的缓冲区，size<=0 时使用默认容量
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Buffer{
		Records: make([]Record, 0, size),
		max:     size,
	}
}

// Append 追加一条记录，超出容量时丢弃最老的记录
func (b *Buffer) Append(rec Record) {
	b.Mu.Lock()
	defer b.Mu.Unlock()

	if len(b.Records) >= b.max {
		drop := len(b.Records) - b.max + 1
		b.Records = append(b.Records[:0], b.Records[drop:]...)
	}
	b.Records = append(b.Records, rec)
}

// Len 返回当前记录条数
func (b *Buffer) Len() int {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	return len(b.Records)
}

// Snapshot 返回当前所有记录的拷贝（用于日志查看接口）
func (b *Buffer) Snapshot() []Record {
	b.Mu.Lock()
	defer b.Mu.Unlock()

	out := make([]Record, len(b.Records))
	copy(out, b.Records)
	return out
}
