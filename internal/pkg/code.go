package pkg

import (
	cryptoRand "crypto/rand"
	"math/big"
	"strings"
)

// VerifyCodeLen 邮箱验证码固定 6 位数字
const VerifyCodeLen = 6

// NewVerifyCode 生成注册/重置密码用的数字验证码
func NewVerifyCode() (string, error) {
	var b strings.Builder
	for i := 0; i < VerifyCodeLen; i++ {
		x, err := cryptoRand.Int(cryptoRand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + x.Int64()))
	}
	return b.String(), nil
}
