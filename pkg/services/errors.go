package services

import "fmt"

// ServiceError は外部AIサービスへの呼び出しが完了できなかったことを示します。
// ネットワーク障害・認証失敗・タイムアウト・非2xx応答はすべてこのエラーに
// 包まれて呼び出し元へ伝播します。リトライは行いません。
type ServiceError struct {
	Op  string // 失敗した操作名
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("外部AIサービスの呼び出しに失敗 (%s): %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
