package log

import "os"

// writeEmptyFile 테스트에서 사용할 빈 파일을 생성합니다.
func writeEmptyFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return f.Close()
}
