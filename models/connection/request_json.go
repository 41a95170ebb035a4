package connection

type ReqShoot struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}
