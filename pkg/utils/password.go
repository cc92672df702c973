package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt 自带随机盐，同一明文每次产出不同哈希。
// bcrypt 只处理前 72 字节，超长明文直接报错而不是截断
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword 哈希格式非法也只返回 false，不向外抛错
func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
