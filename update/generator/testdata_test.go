// Copyright 2016 CoreOS, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package generator

import (
	"bytes"
	"encoding/base64"
)

const (
	testEmptyHashStr     = `47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=`
	testOnesHashStr      = `9HqOw+mv8jGNiWlCKCrU/jfWORyCkU9UpdqKN94TAMY=`
	testUnalignedHashStr = `6pwJcxe6bTOSepRIAED1jRKLlIMd+xhzoxv1CzBayrE=`
	testRandHashStr      = `DXrkbMiTwj64Zjirs/vZGZwj747EgQRDmZYodPxRlqY=`
)

// testRandStr is one block of high-entropy data: bzip2 cannot shrink it,
// so scans over it exercise the REPLACE fallback rather than REPLACE_BZ.
const testRandStr = `` +
	`EZFEKD6IP1jphbJ+i0x58gAgxtBMaLbC+NucqOMXf45Uikyf/MNKcsohM48AnUVO` +
	`kguut3Fislu2kpA8wTbs7B4meXSZMF9+aNRWUQPxY0BqmbJ2HCL/VrXCR3odtLIB` +
	`X4hqehPr7X0hsvSmW6enfXgne7V7AcsT5fqHDSrw9dLrWUm1QOLgBlHYpn3s54xF` +
	`rWCT1zXXFRB0xOPA2btPElPrkEVgpdSD9H2uhnbHJ3w//6XztLqlqtOvzLGf2kc1` +
	`vbVbKLs6/TlZl4cZHKKY9jXo72x8Mi5xod4Y1G9b6RgkVTEZqv+Kush49iLk5AjA` +
	`3EIWxFom9w0wEySPAZQzFmvsxCWsjSUTPnm1mszfff2RJ7BaZt/GPEve7UfdP5sV` +
	`qEYTdPwh9kvHj/0NwBTaMZ87iLWBDGfyTdWDX52AkFaIU0AzIkRQbIUZmzcLTLhj` +
	`DVMPF5d/4w9A344b7tUUd7PEScZcXb4OG41rsDoNZ529wVsf5CJpOqtMU1jCpv3F` +
	`4KcWCMkf/keLjdmjaFIDSw4Yjs6S54F5Gpmgt5ecZkCYQJtmXz1db/dBrUhvtYAQ` +
	`wXc4djTvtAEhwlnT+5FGfLKE80v+wHkxfGQp6+vWoIvxP45HzBMqLseL0QvD1Qd5` +
	`8lXjq1SrzoIYt3l9aV9htPwAl/0sl7P7J67jwRgRR7K8JLErquEoNrgSOZfxXiHg` +
	`OtpZoN0PyktMcsPEYWoQCV7rTIK+3R2hQLCw2nMj9MmWVRzpLrJUH7T7uRx6IwQX` +
	`ujNpTymYppxA7+OBUZjx33fOo8cSquef5yisDA5wX0h2tBHbnpL6fIfeAK7j6//x` +
	`B4Q4JEGyd+CnHCihMnOgR8/l8+36o/iC7Q4G5Kg5C9Hpxmlui3m9TTtqEnhuEgJz` +
	`c7RrYVFVc/9+7G1eEOPa8WKAK/lJnTYdFXTlAgROBwq2D4vfnJt5r908Ij7Gv3v0` +
	`MB0fdNj27hSCH2rprvyJRAcAZOHwTDU1akF4OrviTI3e0gZXQw7Z0uSHadolCXsH` +
	`BbR7QafnjmcL83q9fMoe4rW/OAG1S3laCDsXsUYvW8qKadY2qwueOrzJY+4Xp5D8` +
	`PNdQVPogy7GOuFqAaSM50ilkFsIWe4NzmfYfiHxRtKjTdNYOjDg3K1LZ4AkWlltm` +
	`iPaKHhWqLPmJHyQGUxbpu3I3EmK2t+KRKMPJflWdgIQXdR9ng29ElfLVO0B/Fz1q` +
	`aNi9pvnZ23+4pPnJnDmcJ9wwdZ3Fko9yaA0xP8Un+RufebVna4qlwmJBB4fTWFDD` +
	`hjzLW8d1C9dZBHcMCQxkK8QKqtlsjpwWTqUOcLo2o+bFpv0MaKl/rjDCHGQHzkSy` +
	`t4a7FAI6VEV94VSgvMqSgS26PI/zv/k9pVTkXg6vkSlxpQu4GGxsO6QhTIft77VR` +
	`pr4Gvtywat+Ne2YAs7CbSRDmcqic2FMpM/C+9NqmeDWuoIlw76/qoBzAu56UiUzK` +
	`xrKIIQGmzFVqQVF6stV9W0lkh9iLaEIuPrqzk2vl68TkKRSOs8pud4CbT73sPzAa` +
	`1MXg0Wc5xjide27erL6Yloaz83WjG6BQkheKvLWjnG45MR8UIEFrIIpx+0hkL5fS` +
	`va61Y3t2J9DgKGmlruvepuTou5f0+uY0tN3S/o40hfKiesfxDBSPNv8cFc6pV+Jp` +
	`NSuFFbcgSPdToA4MO9u+GuhQT51bd0IKgba4RYBOhpFk3CvcmFq9IWH04fZESLp8` +
	`NQypaaSR8hCjZ8Xd+LxCIsGpg/a2RrLyfmRNXL+oOLGqrAhIDrZE0/+JQGd9VTLE` +
	`k+dqlDwnjrAZrD1KqMIGLQnQ3Mq/5smOwGxAr+/iwqVeCe7J/pNG5lbgf94+LfEL` +
	`cKH671pKP9LMXs61sR9yZ5mgliR0Zp/3rpSpMkQ8PB5Ocg3SkXeH/Lpcqss+dTy9` +
	`yF3kNG6GJIbBPdDyh4jXztI7UG2Gj0lGxtH6lqKXdPXJHX3WMNHPF3sqDDWbWWGz` +
	`991N6JAsIM+YTg4L/gUrE8j932Hfqj10bWi92NH5aRj6jpKsmCfiRyoCtDNWhB3K` +
	`fmFGQvJ5CjgL/HIZDTopchKoZxJVjifN/j3zlZwkHtSN5+0vahh/qeMxopaObRpN` +
	`Z24mR2tkiNUT2Sx2Lhug2B3OE6KWWFMOQdikkGU4vfPaunyd30zuFa2HUnvcKW7l` +
	`ro30N+WVu94dXK2m5S1ZnjsW9BGuRV7esq6oSsRrIbIXAVSIl2M/xTWiWHtSlzCh` +
	`JAZ6L3aQcnOIinec/ps8033U+8PxABvGakb1SVJNHTLdATD2wqlEpWApocHi9uyX` +
	`G2mSTMAu6Pn3M2MrMovtrNR2ixI4qLJrv1w4pZ7fQmOBsDPYB0+AowZaMgxLVWH8` +
	`z+EO1AjmKkHL19cnZgHB0MlL2FnzvntL9g+rIBXiFHlqgiu/XaewqPrdt5C0EXyS` +
	`DHkffaEp+6DerBE22dHltdNScSklghbKqzecfXW/xcII9+1pdVwwPcA1OvWFq0vN` +
	`v3es+uPkSk4o+V1FySXpGRgUBACT2fTMNob+JRFhwacnqWX4jUiH5hly1Uv0uoKb` +
	`9geZWydjKPjb2PSW2K2ZBpkPOuZRHGRwSZtnoFzoC90E7oU/ZOBLTVsEhtucbd7T` +
	`KqiSVF0KLGb7UcyQtwdWTOTPKbBm94m6GL0/xu7uy/8FVTu66/XaiRbQ3rg6Ke7I` +
	`P41LZPsyvclVxd/AooQP7wXq7QypRTBZes0BXEID10fY7hltxVRuiKy/YVUbOKZf` +
	`yDqE9eielKxSbIlp4f6MYp7HG8yvCp2sBBSxZZCsQYmJRzp5cemcn+EpO7/hhvZh` +
	`j0FW/4aJMCIMmFyOgVlv1GfcLvxDnhZ1IL+yJeq5LM3rrqG8/rmaImMQg7gMWEkL` +
	`txbut0bREfOQmeIZzjFd+14FYKfsMB/Hx44C4eSWI4PzYI/M3e5TCE85CIYO6RPQ` +
	`ORT2n3S/WwMd6rvP6bMxCAZgFe/APYXwXLhuKtQzDfjA7Aq/280nJCDek0BbGW48` +
	`S0mZhWIL8OiXS6gAhoMRCYZuyKot9uwUWt1mQKTqicuLU6ldtliutN7oxxTQ4xHd` +
	`oeZLx5D7qBix1QMJVmXDGCx/+zX9GS4lKuUUglZIN9nrv49jNN/LFDgdtmWyCMlm` +
	`BLZ1S7vdVcEGgcM03jUy+PWXfoWnfJ4Yb3Ck2E6nYY2nj5ZfVPEZCaG6taXP/vUj` +
	`jBeGlU6dPkp9FwrFnVWouc8xJ+NvjlIbSqU6HsSVzttwCliESe65uABGbchIAXWQ` +
	`tSeXnRi8b7cr3i7NR2ytQ0FUfZwAig2pFkSU8jY/nG4ERUiPhUYm/qiDvJZ7I7R5` +
	`edwKh4uScD0DeqVyYvuF/I9vkQUJiFEjSMvT14H65HNDOvEax7GKMz04I2da8e9Y` +
	`diWGxFR5Q9HLyVUOjLifm+IFJVXYUfsqVkGZuTdBtuHbfqrzilT9JJqujjjViBYO` +
	`ywSf3oUoekTxblMVYVsEvIUk8zjj1d6Ln/6YeK0Y8fQg2qTlGJOkSviJ1kHUKZ9h` +
	`p1zJkQbum5Ex1yPHF4CxNWIdZFf0xkWkYg/A4MmUgYMNeCfliUKR+OOxa6lp7zEQ` +
	`gz391Vq2GOOcF4PHK3ksX/4Vvyy7SsoKtfbiYDDPpQr0yIbZNknqgkSibMUT8Ac3` +
	`QYXHP85qFCkCuchhjLpcoaO0pLbuA+EJgAfcTIeZOdWLu3DK0U1nmcWCo+woymlu` +
	`4IinZSubYDpUGAxob7PB/BKY1PpHNIHo6NuCteWB8YlSe/SKqwB7tk94i3sBfE25` +
	`Rw5UkL7aq+CAi4Gb3+h4Pm3wssa7Bi06LpQG9MmulS7huHbbI7tN9bq6MIeHEGwQ` +
	`4wAzWXptQa5EO75pWYSug0rKXTs2QyC3EOZ7v26HtEmNMaeRRMQABBtDa/bAmUh7` +
	`kGC9PBPCdDZ1NEgxX+cU3hCoUZ/KM0LumwA/H7fSBQk4ifxv+qoxYRzk7bWp/fVP` +
	`nCi5e0KnSaRGlk1CNsD0AuG/CU2dfd79QqQXLyF6Zgj2FM7ZmrDU9/Urq6+ocapM` +
	`0VShx0DReWqA1XWVGihLwYHeeNjp/JJa79inc3MOS5muAgTdAxYyj9JyyHD7cyrF` +
	`Q7J/GMTpZf4DwrGg2pmW/ANmlcNsuDBQetYZxmNMq9beYhEGDT1qB5xqggjZDiez` +
	`a2b+07hu8cpG4zdCkCoW8YNx4y2LtPAjUdBFg1D9x1Rom2GqWI9dz9cy0tDlrSem` +
	`MycqXfaiWcsgMOh7yi/wnPeF4YIWFGMaE0/I3COEjNk+vneSZ1CuWO2YXztjyBbM` +
	`TIhsKPIwWaB3mBATmOkrPLbbn76UeE+I6mT8mBb6+lRIzBQnAFrLa0TJK7Cjpicj` +
	`Ygk5J9OYHZHNbpIjScpgDBeXhGwubVVeu6CaSqxlTMT+jeN93FlQirBtRysHlxju` +
	`np7NV8qUvjFakQN6AQpvq5L4BmAMQgzcTXxLz83EvQ5y9Fngan9FqOwRBhTzYlFP` +
	`1qwCktXUlUZ8PkQiFN0vJ3w74NbnWm/XEyt/SCaOsPl3x1WoNvu/ywsekPWbK2yK` +
	`C8rO+snPo1flAaBJzBAbA1ERRg9xcfNpUyznEipaPFEzogJehxgGp6tUBDhtrHqQ` +
	`zMjbf1GYjR5qKunHH9z2nVXX50h1htd6f+619os9zOnhOigk4QKyXvjFum+40bty` +
	`kQIxW40UN5TYmDTJVGlDeQSdYogQTvyUZY3dkTH8hD+3xGxs+XfJa9BPAXwiDtF/` +
	`Dab7KRJx/Ky1W8pj2G/V2SHgjIfSbW4XrURC+7SrOekNfv27KybTfBGSaKpw0PCk` +
	`A/BqBRPyHF32+ZKqiiuBjBDN2677CD3xG4s+SdWYTvX05FUeGBhePI4/DP/fnfL3` +
	`6aLRSVonRS0T/VaFE2YjQNiNlktDAMuImxg8PhZqaciNOlPhxNCOOgxoIGMVyW8t` +
	`TxLyNF7OcNO6kh4gOuhR+2isawKEm+Hf9+jNYGSO9KqWcoIFL/yHbSdh1n5znqZn` +
	`0PGLLWLami3qkVdAvfhZ0j09SajcDxMoR+0LZTD7wGGcAa9JK8k+un5eseYtxZWo` +
	`BNmpa4pBw3ow8YSJ4QBdc4UW4BNpLBjPysD2QBqVegK4xh01lYEz4+1FReWtU5hI` +
	`lelZvchPZ4XOtS/sw3B9ZDeFYsD5ZEqGjGo3f5HbeGuWdNZKRI8zmk+j6zQPg+0A` +
	`ZJAXFkyDpfGmLmA40noh0RFhsPFLiQTpzVJpuQ4/kdoPPl6+2FYQ0ElaCSk/LPmB` +
	`3onMn9k/GKuVi5oo5+lgZ3aacIw1NOWy3v6EuKXFDpZ9dUczUGK8gjZHwXMbzvs9` +
	`dZDKk8c3jEooJmmGCdSTh9VCY7tpDIF8Q1q1Nfc3PKWI4b/kpxT6YwL0AJLddlL/` +
	`CR/dMf1raYNlX+xm8ch14T01ndCe2ROQpAiuoMpB0Awe1/TeVGcCcLIEagJAaa8n` +
	`YjVArvKUt67r8nagW/NG7g==`

var (
	testEmptyHash     []byte
	testOnes          []byte
	testOnesHash      []byte
	testUnaligned     []byte
	testUnalignedHash []byte
	testRand          []byte
	testRandHash      []byte
)

func init() {
	testEmptyHash = mustBase64(testEmptyHashStr)
	testOnes = bytes.Repeat([]byte{0xff}, BlockSize)
	testOnesHash = mustBase64(testOnesHashStr)
	testUnaligned = append(testOnes, 0xff)
	testUnalignedHash = mustBase64(testUnalignedHashStr)
	testRand = mustBase64(testRandStr)
	testRandHash = mustBase64(testRandHashStr)
}

func mustBase64(s string) []byte {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
